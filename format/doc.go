// Package format defines the two format code spaces used at the texture
// boundary: pixel formats, which follow the Vulkan format numbering, and
// transcode target formats, which follow the native library's transcode
// enumeration. Both are plain integer enums with raw/symbolic mappings and
// no behavior of their own.
package format
