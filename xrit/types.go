// Package xrit provides structs and functions for decoding CGMS HRIT/LRIT files.
//
// The documents used and referenced in this package:
//  • LRIT/HRIT: CGMS 03, LRIT/HRIT Global Specification, Issue 2.6 (frame and header records)
//  • CDS: CCSDS 301.0-B, Time Code Formats (day segmented time code)
package xrit

import "errors"

// FileType is the file type code carried in byte 3 of every frame (LRIT/HRIT 4.3.1)
type FileType uint8

const (
	FileImage        FileType = 0
	FileMessage      FileType = 1
	FileAlphanumeric FileType = 2
	FileKey          FileType = 3

	// PrefixLength is the fixed primary header every file starts with
	PrefixLength = 16
)

func (t FileType) String() string {
	switch t {
	case FileImage:
		return "image"
	case FileMessage:
		return "message"
	case FileAlphanumeric:
		return "alphanumeric"
	case FileKey:
		return "key"
	}
	return "mission specific"
}

var (
	ErrFileNotFound      = errors.New("file not found")
	ErrTruncatedFile     = errors.New("truncated file")
	ErrNotAnImageFrame   = errors.New("not an image frame")
	ErrWrongFrameType    = errors.New("wrong frame type")
	ErrUnsupportedRecord = errors.New("unsupported header record")
	ErrRecordNotFound    = errors.New("header record not found")
	ErrMalformedRecord   = errors.New("malformed header record")
)
