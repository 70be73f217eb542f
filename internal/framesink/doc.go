// Package framesink publishes rendered frames to a socket.io server, so a
// remote viewer can follow a headless or interactive run.
package framesink
