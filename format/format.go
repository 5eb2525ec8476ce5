package format

// PixelFormat identifies a texel layout and numeric interpretation using the
// Vulkan format numbering convention. Only the formats commonly stored in
// KTX2 containers are named here; the underlying code space is the full
// VkFormat enumeration, so unnamed values still round-trip through Raw.
type PixelFormat uint32

const (
	PixelFormatUndefined PixelFormat = 0

	PixelFormatR8Unorm       PixelFormat = 9
	PixelFormatR8G8Unorm     PixelFormat = 16
	PixelFormatR8G8B8Unorm   PixelFormat = 23
	PixelFormatB8G8R8Unorm   PixelFormat = 30
	PixelFormatR8G8B8A8Unorm PixelFormat = 37
	PixelFormatR8G8B8A8Srgb  PixelFormat = 43
	PixelFormatB8G8R8A8Unorm PixelFormat = 44
	PixelFormatB8G8R8A8Srgb  PixelFormat = 50

	PixelFormatR16Sfloat          PixelFormat = 70
	PixelFormatR16G16Sfloat       PixelFormat = 73
	PixelFormatR16G16B16A16Sfloat PixelFormat = 97
	PixelFormatR32Sfloat          PixelFormat = 100
	PixelFormatR32G32Sfloat       PixelFormat = 103
	PixelFormatR32G32B32A32Sfloat PixelFormat = 109

	PixelFormatBC1RGBUnormBlock  PixelFormat = 131
	PixelFormatBC1RGBAUnormBlock PixelFormat = 132
	PixelFormatBC1RGBASrgbBlock  PixelFormat = 134
	PixelFormatBC3UnormBlock     PixelFormat = 136
	PixelFormatBC4UnormBlock     PixelFormat = 137
	PixelFormatBC3SrgbBlock      PixelFormat = 138
	PixelFormatBC5UnormBlock     PixelFormat = 140
	PixelFormatBC7UnormBlock     PixelFormat = 145
	PixelFormatBC7SrgbBlock      PixelFormat = 146

	PixelFormatETC2R8G8B8UnormBlock   PixelFormat = 147
	PixelFormatETC2R8G8B8SrgbBlock    PixelFormat = 148
	PixelFormatETC2R8G8B8A1UnormBlock PixelFormat = 149
	PixelFormatETC2R8G8B8A1SrgbBlock  PixelFormat = 150
	PixelFormatETC2R8G8B8A8UnormBlock PixelFormat = 151
	PixelFormatETC2R8G8B8A8SrgbBlock  PixelFormat = 152

	PixelFormatASTC4x4UnormBlock PixelFormat = 157
	PixelFormatASTC4x4SrgbBlock  PixelFormat = 158
	PixelFormatASTC8x8UnormBlock PixelFormat = 165
	PixelFormatASTC8x8SrgbBlock  PixelFormat = 172
)

var pixelFormatNames = map[PixelFormat]string{
	PixelFormatUndefined:              "UNDEFINED",
	PixelFormatR8Unorm:                "R8_UNORM",
	PixelFormatR8G8Unorm:              "R8G8_UNORM",
	PixelFormatR8G8B8Unorm:            "R8G8B8_UNORM",
	PixelFormatB8G8R8Unorm:            "B8G8R8_UNORM",
	PixelFormatR8G8B8A8Unorm:          "R8G8B8A8_UNORM",
	PixelFormatR8G8B8A8Srgb:           "R8G8B8A8_SRGB",
	PixelFormatB8G8R8A8Unorm:          "B8G8R8A8_UNORM",
	PixelFormatB8G8R8A8Srgb:           "B8G8R8A8_SRGB",
	PixelFormatR16Sfloat:              "R16_SFLOAT",
	PixelFormatR16G16Sfloat:           "R16G16_SFLOAT",
	PixelFormatR16G16B16A16Sfloat:     "R16G16B16A16_SFLOAT",
	PixelFormatR32Sfloat:              "R32_SFLOAT",
	PixelFormatR32G32Sfloat:           "R32G32_SFLOAT",
	PixelFormatR32G32B32A32Sfloat:     "R32G32B32A32_SFLOAT",
	PixelFormatBC1RGBUnormBlock:       "BC1_RGB_UNORM_BLOCK",
	PixelFormatBC1RGBAUnormBlock:      "BC1_RGBA_UNORM_BLOCK",
	PixelFormatBC1RGBASrgbBlock:       "BC1_RGBA_SRGB_BLOCK",
	PixelFormatBC3UnormBlock:          "BC3_UNORM_BLOCK",
	PixelFormatBC4UnormBlock:          "BC4_UNORM_BLOCK",
	PixelFormatBC3SrgbBlock:           "BC3_SRGB_BLOCK",
	PixelFormatBC5UnormBlock:          "BC5_UNORM_BLOCK",
	PixelFormatBC7UnormBlock:          "BC7_UNORM_BLOCK",
	PixelFormatBC7SrgbBlock:           "BC7_SRGB_BLOCK",
	PixelFormatETC2R8G8B8UnormBlock:   "ETC2_R8G8B8_UNORM_BLOCK",
	PixelFormatETC2R8G8B8SrgbBlock:    "ETC2_R8G8B8_SRGB_BLOCK",
	PixelFormatETC2R8G8B8A1UnormBlock: "ETC2_R8G8B8A1_UNORM_BLOCK",
	PixelFormatETC2R8G8B8A1SrgbBlock:  "ETC2_R8G8B8A1_SRGB_BLOCK",
	PixelFormatETC2R8G8B8A8UnormBlock: "ETC2_R8G8B8A8_UNORM_BLOCK",
	PixelFormatETC2R8G8B8A8SrgbBlock:  "ETC2_R8G8B8A8_SRGB_BLOCK",
	PixelFormatASTC4x4UnormBlock:      "ASTC_4x4_UNORM_BLOCK",
	PixelFormatASTC4x4SrgbBlock:       "ASTC_4x4_SRGB_BLOCK",
	PixelFormatASTC8x8UnormBlock:      "ASTC_8x8_UNORM_BLOCK",
	PixelFormatASTC8x8SrgbBlock:       "ASTC_8x8_SRGB_BLOCK",
}

// Raw returns the VkFormat code.
func (f PixelFormat) Raw() uint32 { return uint32(f) }

func (f PixelFormat) String() string {
	if name, ok := pixelFormatNames[f]; ok {
		return name
	}
	return "UNKNOWN"
}

// PixelFormatFromRaw maps a VkFormat code to a named pixel format. The
// second result is false for codes this package does not name; the value 0
// is the valid Undefined format, not an unknown.
func PixelFormatFromRaw(v uint32) (PixelFormat, bool) {
	f := PixelFormat(v)
	_, ok := pixelFormatNames[f]
	if !ok {
		return PixelFormatUndefined, false
	}
	return f, true
}

// TranscodeFormat identifies a GPU target format for transcoding a
// Basis-compressed texture. The code space follows the native library's
// transcode enumeration and is closed: there is no escape hatch for codes
// outside this set.
type TranscodeFormat uint32

const (
	// Mobile block formats.
	TranscodeETC1RGB  TranscodeFormat = 0
	TranscodeETC2RGBA TranscodeFormat = 1

	// Desktop block formats.
	TranscodeBC1RGB  TranscodeFormat = 2
	TranscodeBC3RGBA TranscodeFormat = 3
	TranscodeBC4R    TranscodeFormat = 4
	TranscodeBC5RG   TranscodeFormat = 5
	TranscodeBC7RGBA TranscodeFormat = 6

	// iOS block formats.
	TranscodePVRTC14RGB  TranscodeFormat = 8
	TranscodePVRTC14RGBA TranscodeFormat = 9

	// Modern mobile.
	TranscodeASTC4x4RGBA TranscodeFormat = 10

	// Uncompressed fallbacks.
	TranscodeRGBA32   TranscodeFormat = 13
	TranscodeRGB565   TranscodeFormat = 14
	TranscodeBGR565   TranscodeFormat = 15
	TranscodeRGBA4444 TranscodeFormat = 16
)

var transcodeFormatNames = map[TranscodeFormat]string{
	TranscodeETC1RGB:     "ETC1_RGB",
	TranscodeETC2RGBA:    "ETC2_RGBA",
	TranscodeBC1RGB:      "BC1_RGB",
	TranscodeBC3RGBA:     "BC3_RGBA",
	TranscodeBC4R:        "BC4_R",
	TranscodeBC5RG:       "BC5_RG",
	TranscodeBC7RGBA:     "BC7_RGBA",
	TranscodePVRTC14RGB:  "PVRTC1_4_RGB",
	TranscodePVRTC14RGBA: "PVRTC1_4_RGBA",
	TranscodeASTC4x4RGBA: "ASTC_4x4_RGBA",
	TranscodeRGBA32:      "RGBA32",
	TranscodeRGB565:      "RGB565",
	TranscodeBGR565:      "BGR565",
	TranscodeRGBA4444:    "RGBA4444",
}

// Raw returns the native transcode target code.
func (f TranscodeFormat) Raw() uint32 { return uint32(f) }

func (f TranscodeFormat) String() string {
	if name, ok := transcodeFormatNames[f]; ok {
		return name
	}
	return "UNKNOWN"
}

// TranscodeFormatFromRaw maps a native transcode code to a member of the
// closed enum, reporting false for any code outside it.
func TranscodeFormatFromRaw(v uint32) (TranscodeFormat, bool) {
	f := TranscodeFormat(v)
	_, ok := transcodeFormatNames[f]
	if !ok {
		return 0, false
	}
	return f, true
}

// ParseTranscodeFormat maps a display name (as produced by String) back to
// the enum, reporting false for unrecognized names.
func ParseTranscodeFormat(name string) (TranscodeFormat, bool) {
	for f, n := range transcodeFormatNames {
		if n == name {
			return f, true
		}
	}
	return 0, false
}
