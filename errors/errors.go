package errors

import (
	"fmt"
)

// Code is a status code from the native KTX library's fixed enumeration.
// Zero is the distinguished success value.
type Code uint32

const (
	CodeSuccess                 Code = 0
	CodeFileDataError           Code = 1
	CodeFileIsPipe              Code = 2
	CodeFileOpenFailed          Code = 3
	CodeFileOverflow            Code = 4
	CodeFileReadError           Code = 5
	CodeFileSeekError           Code = 6
	CodeFileUnexpectedEOF       Code = 7
	CodeFileWriteError          Code = 8
	CodeGLError                 Code = 9
	CodeInvalidOperation        Code = 10
	CodeInvalidValue            Code = 11
	CodeNotFound                Code = 12
	CodeOutOfMemory             Code = 13
	CodeTranscodeFailed         Code = 14
	CodeUnknownFileFormat       Code = 15
	CodeUnsupportedTextureType  Code = 16
	CodeUnsupportedFeature      Code = 17
	CodeLibraryNotLinked        Code = 18
	CodeDecompressLengthError   Code = 19
	CodeDecompressChecksumError Code = 20
)

// Kind categorizes the error. The set is closed except for KindOther, which
// preserves native codes outside the known enumeration.
type Kind string

const (
	KindFileDataError           Kind = "file_data_error"
	KindFilePipe                Kind = "file_pipe"
	KindFileOpenFailed          Kind = "file_open_failed"
	KindFileOverflow            Kind = "file_overflow"
	KindFileReadError           Kind = "file_read_error"
	KindFileSeekError           Kind = "file_seek_error"
	KindFileUnexpectedEOF       Kind = "file_unexpected_eof"
	KindFileWriteError          Kind = "file_write_error"
	KindGlError                 Kind = "gl_error"
	KindInvalidOperation        Kind = "invalid_operation"
	KindInvalidValue            Kind = "invalid_value"
	KindNotFound                Kind = "not_found"
	KindOutOfMemory             Kind = "out_of_memory"
	KindTranscodeFailed         Kind = "transcode_failed"
	KindUnknownFileFormat       Kind = "unknown_file_format"
	KindUnsupportedTextureType  Kind = "unsupported_texture_type"
	KindUnsupportedFeature      Kind = "unsupported_feature"
	KindLibraryNotLinked        Kind = "library_not_linked"
	KindDecompressLengthError   Kind = "decompress_length_error"
	KindDecompressChecksumError Kind = "decompress_checksum_error"
	KindOther                   Kind = "other"
)

// descriptions are the fixed human-readable messages per kind.
var descriptions = map[Kind]string{
	KindFileDataError:           "the data in the file is inconsistent with the KTX spec",
	KindFilePipe:                "the file is a pipe or named pipe",
	KindFileOpenFailed:          "the target file could not be opened",
	KindFileOverflow:            "the operation would exceed the max file size",
	KindFileReadError:           "an error occurred while reading from the file",
	KindFileSeekError:           "an error occurred while seeking in the file",
	KindFileUnexpectedEOF:       "file does not have enough data to satisfy request",
	KindFileWriteError:          "an error occurred while writing to the file",
	KindGlError:                 "GL operations resulted in an error",
	KindInvalidOperation:        "the operation is not allowed in the current state",
	KindInvalidValue:            "a parameter value was not valid",
	KindNotFound:                "requested metadata key or required function was not found",
	KindOutOfMemory:             "not enough memory to complete the operation",
	KindTranscodeFailed:         "transcoding of block compressed texture failed",
	KindUnknownFileFormat:       "the file is not a KTX file",
	KindUnsupportedTextureType:  "the KTX file specifies an unsupported texture type",
	KindUnsupportedFeature:      "feature not included in library or not yet implemented",
	KindLibraryNotLinked:        "library dependency not linked into application",
	KindDecompressLengthError:   "decompressed byte count does not match expected size",
	KindDecompressChecksumError: "checksum mismatch when decompressing",
}

var kindByCode = map[Code]Kind{
	CodeFileDataError:           KindFileDataError,
	CodeFileIsPipe:              KindFilePipe,
	CodeFileOpenFailed:          KindFileOpenFailed,
	CodeFileOverflow:            KindFileOverflow,
	CodeFileReadError:           KindFileReadError,
	CodeFileSeekError:           KindFileSeekError,
	CodeFileUnexpectedEOF:       KindFileUnexpectedEOF,
	CodeFileWriteError:          KindFileWriteError,
	CodeGLError:                 KindGlError,
	CodeInvalidOperation:        KindInvalidOperation,
	CodeInvalidValue:            KindInvalidValue,
	CodeNotFound:                KindNotFound,
	CodeOutOfMemory:             KindOutOfMemory,
	CodeTranscodeFailed:         KindTranscodeFailed,
	CodeUnknownFileFormat:       KindUnknownFileFormat,
	CodeUnsupportedTextureType:  KindUnsupportedTextureType,
	CodeUnsupportedFeature:      KindUnsupportedFeature,
	CodeLibraryNotLinked:        KindLibraryNotLinked,
	CodeDecompressLengthError:   KindDecompressLengthError,
	CodeDecompressChecksumError: KindDecompressChecksumError,
}

// Error is the structured error type used throughout the wrapper.
type Error struct {
	Kind   Kind
	Code   Code   // native status if the error crossed the boundary, else 0
	Detail string // optional local context, excluded from matching
}

// Error implements the error interface.
func (e *Error) Error() string {
	var msg string
	if e.Kind == KindOther {
		msg = fmt.Sprintf("unknown error code: %d", e.Code)
	} else {
		msg = descriptions[e.Kind]
	}
	if e.Detail != "" {
		return msg + ": " + e.Detail
	}
	return msg
}

// Is reports whether target matches this error. Matching is value-based on
// Kind; two KindOther errors match only when their codes are equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if e.Kind != t.Kind {
		return false
	}
	if e.Kind == KindOther {
		return e.Code == t.Code
	}
	return true
}

// FromCode translates a native status code into the taxonomy. It is total
// over every non-success code. Passing the success code is a contract
// violation on the caller's side and panics.
func FromCode(c Code) *Error {
	if c == CodeSuccess {
		panic("ktx2/errors: success status must not be converted to an error")
	}
	kind, ok := kindByCode[c]
	if !ok {
		return &Error{Kind: KindOther, Code: c}
	}
	return &Error{Kind: kind, Code: c}
}

// Sentinel values for errors.Is matching.
var (
	ErrFileDataError           = &Error{Kind: KindFileDataError, Code: CodeFileDataError}
	ErrFilePipe                = &Error{Kind: KindFilePipe, Code: CodeFileIsPipe}
	ErrFileOpenFailed          = &Error{Kind: KindFileOpenFailed, Code: CodeFileOpenFailed}
	ErrFileOverflow            = &Error{Kind: KindFileOverflow, Code: CodeFileOverflow}
	ErrFileReadError           = &Error{Kind: KindFileReadError, Code: CodeFileReadError}
	ErrFileSeekError           = &Error{Kind: KindFileSeekError, Code: CodeFileSeekError}
	ErrFileUnexpectedEOF       = &Error{Kind: KindFileUnexpectedEOF, Code: CodeFileUnexpectedEOF}
	ErrFileWriteError          = &Error{Kind: KindFileWriteError, Code: CodeFileWriteError}
	ErrGlError                 = &Error{Kind: KindGlError, Code: CodeGLError}
	ErrInvalidOperation        = &Error{Kind: KindInvalidOperation, Code: CodeInvalidOperation}
	ErrInvalidValue            = &Error{Kind: KindInvalidValue, Code: CodeInvalidValue}
	ErrNotFound                = &Error{Kind: KindNotFound, Code: CodeNotFound}
	ErrOutOfMemory             = &Error{Kind: KindOutOfMemory, Code: CodeOutOfMemory}
	ErrTranscodeFailed         = &Error{Kind: KindTranscodeFailed, Code: CodeTranscodeFailed}
	ErrUnknownFileFormat       = &Error{Kind: KindUnknownFileFormat, Code: CodeUnknownFileFormat}
	ErrUnsupportedTextureType  = &Error{Kind: KindUnsupportedTextureType, Code: CodeUnsupportedTextureType}
	ErrUnsupportedFeature      = &Error{Kind: KindUnsupportedFeature, Code: CodeUnsupportedFeature}
	ErrLibraryNotLinked        = &Error{Kind: KindLibraryNotLinked, Code: CodeLibraryNotLinked}
	ErrDecompressLengthError   = &Error{Kind: KindDecompressLengthError, Code: CodeDecompressLengthError}
	ErrDecompressChecksumError = &Error{Kind: KindDecompressChecksumError, Code: CodeDecompressChecksumError}
)

// Convenience constructors for locally raised errors. Local errors carry no
// native code; they are produced by precondition checks that run before any
// native call.

// InvalidValue creates an invalid-value error with local context.
func InvalidValue(detail string, args ...any) *Error {
	return local(KindInvalidValue, detail, args...)
}

// InvalidOperation creates an invalid-operation error with local context.
func InvalidOperation(detail string, args ...any) *Error {
	return local(KindInvalidOperation, detail, args...)
}

// NotFound creates a not-found error with local context.
func NotFound(detail string, args ...any) *Error {
	return local(KindNotFound, detail, args...)
}

// Other preserves a native status code outside the known enumeration.
func Other(code Code) *Error {
	return &Error{Kind: KindOther, Code: code}
}

func local(kind Kind, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{Kind: kind, Detail: detail}
}
