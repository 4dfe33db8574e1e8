// Package dispatch runs NX-OS CLI commands and decodes their "| json" output.
//
// SSHRunner executes each command in its own session on one SSH connection.
// FixtureRunner answers commands from files in a directory, named the way the
// device command reads with pipes dropped, spaces as underscores and slashes as 7
// (show version | json -> show_version__json). Both decode output with DecodeOutput,
// which never fails: output that is not JSON becomes an empty object, and the fact
// parsers treat that like any other missing data.
package dispatch
