package model

// Package model defines the data carried through a single run: the request
// built from the prompts, the download and compression task records, and the
// status enum shared by both.
