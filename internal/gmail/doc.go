// Package gmail provides read-only access to a Gmail mailbox.
//
// ListMessages finds messages that involve any of a set of addresses, in
// any of the From, To, Cc or Bcc headers. RawMessage fetches a message in
// RFC 822 form, the same text a .eml file holds, so it can be fed to the
// flight extraction pipeline.
package gmail
