// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary execution lifecycle: load the
// node libraries, replay an edit script through the action stack and print
// the resulting graphs, decoupled from any specific entrypoint like a CLI.
package app
