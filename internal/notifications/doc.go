// Package notifications delivers catalog outcomes to people.
//
// Events are rendered once into a Message and handed to every configured
// notifier: a comment on the originating GitHub issue (the wording readers of
// the reading-list repository already know) and an optional ntfy topic.
// When nothing is configured the service is a no-op.
//
// Callers translate reconcile outcomes with FromOutcome and depend only on
// the Service interface.
package notifications
