// Package protocol implements the binary wire format pagekit uses to push page
// updates to a connected browser.
//
// A message is a Frame: a 4-byte header (type, flags, big-endian payload
// length) followed by the payload. A Patches frame carries a sequence number and
// a list of patches; each patch names its target element by id and an
// operation (class changes, attribute changes, or a URL replacement that
// rewrites the address bar without navigating).
//
// Integers are unsigned varints and strings are varint length-prefixed UTF-8.
package protocol
