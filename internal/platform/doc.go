package platform

// Package platform contains OS integration glue shared by the download and
// encoding stages: filesystem helpers, safe filename generation, and HTTP
// client construction for the media backends.
