// Package relay forwards change events of a graph collection to a socket.io
// endpoint, so that editors attached to the same server can follow edits as
// they happen.
package relay
