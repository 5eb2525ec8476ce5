// Package errors defines the error taxonomy for KTX2 operations.
//
// Failures come from two sources: status codes returned by the native KTX
// library, and local precondition violations caught before any native call.
// Both are represented by the same Error type so callers match on Kind with
// the standard errors.Is:
//
//	tex, err := ktx2.TextureFromMemory(ctx, lib, data)
//	if errors.Is(err, ktxerrors.ErrUnknownFileFormat) {
//	    // not a KTX2 file
//	}
//
// FromCode translates native status codes into the taxonomy. The translation
// is total over every non-success code: codes outside the known enumeration
// are preserved losslessly as KindOther with the original code attached.
// The success code must never reach FromCode; doing so is a programming
// defect and panics.
package errors
