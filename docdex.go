// Package docdex synchronizes documentation sites with search indexes.
// It discovers pages through a sitemap, segments each page into
// heading-anchored content blocks, synthesizes search records with stable
// identifiers, routes them to destination indexes by URL path prefix, and
// incrementally reconciles each index against its current remote contents.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, sqlite/).
package docdex
