// Package database provides the local SQLite archive of processed contents.
//
// ContentDB stores every processed record with its field ids and trackable
// links so that past runs can be listed and inspected with the history
// command. The archive uses modernc.org/sqlite, a CGO-free driver, with a
// single connection and WAL journaling.
package database
