// Package store persists portfolio projects and privacy-conscious visitor
// metrics in sqlite (modernc.org/sqlite, no cgo). Projects feed the carousel;
// visitors and click counts feed the admin dashboard.
package store
