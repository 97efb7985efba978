// Command booktrack keeps a reading-list catalog in sync with GitHub issues.
//
// Each issue is one book. Opening an issue resolves the title against the
// configured metadata provider and adds an entry; closing it marks the book
// completed; deleting it removes the entry.
//
// Commands:
//
//	track      apply one issue event (GitHub Actions or manual)
//	backfill   replay the full issue history
//	serve      receive issue events over a webhook
//	list       print the catalog
//	resolve    look up a title without touching the catalog
//	doctor     check configuration, paths and services
//	config     create or validate the configuration file
package main
