package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestFromCode_KnownCodes(t *testing.T) {
	tests := []struct {
		code Code
		kind Kind
	}{
		{CodeFileDataError, KindFileDataError},
		{CodeFileIsPipe, KindFilePipe},
		{CodeFileOpenFailed, KindFileOpenFailed},
		{CodeFileOverflow, KindFileOverflow},
		{CodeFileReadError, KindFileReadError},
		{CodeFileSeekError, KindFileSeekError},
		{CodeFileUnexpectedEOF, KindFileUnexpectedEOF},
		{CodeFileWriteError, KindFileWriteError},
		{CodeGLError, KindGlError},
		{CodeInvalidOperation, KindInvalidOperation},
		{CodeInvalidValue, KindInvalidValue},
		{CodeNotFound, KindNotFound},
		{CodeOutOfMemory, KindOutOfMemory},
		{CodeTranscodeFailed, KindTranscodeFailed},
		{CodeUnknownFileFormat, KindUnknownFileFormat},
		{CodeUnsupportedTextureType, KindUnsupportedTextureType},
		{CodeUnsupportedFeature, KindUnsupportedFeature},
		{CodeLibraryNotLinked, KindLibraryNotLinked},
		{CodeDecompressLengthError, KindDecompressLengthError},
		{CodeDecompressChecksumError, KindDecompressChecksumError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := FromCode(tt.code)
			if err.Kind != tt.kind {
				t.Errorf("FromCode(%d).Kind = %q, want %q", tt.code, err.Kind, tt.kind)
			}
			if err.Code != tt.code {
				t.Errorf("FromCode(%d).Code = %d, want %d", tt.code, err.Code, tt.code)
			}
		})
	}
}

func TestFromCode_Deterministic(t *testing.T) {
	for c := Code(1); c <= 25; c++ {
		a, b := FromCode(c), FromCode(c)
		if !stderrors.Is(a, b) || !stderrors.Is(b, a) {
			t.Errorf("FromCode(%d) not deterministic: %v vs %v", c, a, b)
		}
	}
}

func TestFromCode_UnknownPreserved(t *testing.T) {
	err := FromCode(5000)
	if err.Kind != KindOther {
		t.Fatalf("Kind = %q, want %q", err.Kind, KindOther)
	}
	if err.Code != 5000 {
		t.Fatalf("Code = %d, want 5000", err.Code)
	}
	if !strings.Contains(err.Error(), "5000") {
		t.Errorf("Error() = %q, want code in message", err.Error())
	}
}

func TestFromCode_SuccessPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("FromCode(CodeSuccess) did not panic")
		}
	}()
	FromCode(CodeSuccess)
}

func TestError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"same kind", FromCode(CodeInvalidValue), ErrInvalidValue, true},
		{"different kind", FromCode(CodeInvalidValue), ErrNotFound, false},
		{"local matches sentinel", InvalidValue("width must be nonzero"), ErrInvalidValue, true},
		{"other same code", Other(5000), Other(5000), true},
		{"other different code", Other(5000), Other(5001), false},
		{"other vs known", Other(11), ErrInvalidValue, false},
		{"non-taxonomy target", ErrInvalidValue, stderrors.New("x"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stderrors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.want)
			}
		})
	}
}

func TestError_Descriptions(t *testing.T) {
	for kind, desc := range descriptions {
		if desc == "" {
			t.Errorf("kind %q has empty description", kind)
		}
	}

	if got := ErrUnknownFileFormat.Error(); got != "the file is not a KTX file" {
		t.Errorf("ErrUnknownFileFormat.Error() = %q", got)
	}

	err := InvalidValue("level %d out of range", 7)
	if want := "a parameter value was not valid: level 7 out of range"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
