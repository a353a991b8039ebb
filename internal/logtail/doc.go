// Package logtail reads the tail of skypane's JSON log for the debug overlay.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays bounded
// by the request rather than the file size. Each line is decoded as a slog
// JSON record; the source and outcome attributes written by the scheduler get
// their own fields, everything else is flattened into sorted key=value pairs.
// Lines that are not JSON are returned verbatim as the message.
//
// A missing log file is not an error: Read returns no entries.
package logtail
