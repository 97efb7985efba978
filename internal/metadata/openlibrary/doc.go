// Package openlibrary provides a small Open Library search client.
//
// Title searches hit search.json and map each document onto
// metadata.Candidate. Cover ids become covers.openlibrary.org links in large
// and medium sizes. ISBNs are classified by length.
package openlibrary
