package main

import (
	"context"
	"flag"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/woozymasta/bcn"
	"golang.org/x/term"

	ktx2 "github.com/wippyai/ktx2-wasm"
	"github.com/wippyai/ktx2-wasm/engine"
	"github.com/wippyai/ktx2-wasm/format"
)

func main() {
	var (
		libFile     = flag.String("lib", "", "Path to libktx wasm build")
		mounts      = flag.String("mounts", "", "Guest filesystem mounts (/host:/guest,/host2:/guest2)")
		inFile      = flag.String("in", "", "Input KTX2 file")
		info        = flag.Bool("info", false, "Print texture info and exit")
		getKey      = flag.String("get", "", "Print the metadata value stored under a key")
		setKV       = flag.String("set", "", "Store a metadata value (key=value)")
		compress    = flag.Int("compress", 0, "Compress with Basis ETC1S at the given quality (1-255)")
		uastc       = flag.Bool("uastc", false, "Use UASTC mode for -compress (quality 0-4)")
		transcodeTo = flag.String("transcode", "", "Transcode to a GPU format (e.g. BC7_RGBA)")
		exportPNG   = flag.String("export", "", "Decode the base image to a PNG file")
		outFile     = flag.String("out", "", "Output KTX2 file")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *libFile == "" || (*inFile == "" && !*interactive) {
		fmt.Fprintln(os.Stderr, "Usage: ktx -lib <libktx.wasm> -in <file.ktx2> [-info] [-get key] [-set k=v]")
		fmt.Fprintln(os.Stderr, "           [-compress q [-uastc]] [-transcode fmt] [-export out.png] [-out file.ktx2]")
		fmt.Fprintln(os.Stderr, "       ktx -lib <libktx.wasm> [-in <file.ktx2>] -i  (interactive mode)")
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*libFile, *mounts, *inFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	err := run(*libFile, *mounts, *inFile, *getKey, *setKV, *transcodeTo, *exportPNG, *outFile,
		*compress, *uastc, *info)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(libFile, mountStr, inFile, getKey, setKV, transcodeTo, exportPNG, outFile string,
	compress int, uastc, info bool) error {
	ctx := context.Background()

	lib, cleanup, err := loadLibrary(ctx, libFile, mountStr)
	if err != nil {
		return err
	}
	defer cleanup()

	data, err := os.ReadFile(inFile)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	tex, err := ktx2.TextureFromMemory(ctx, lib, data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", inFile, err)
	}
	defer tex.Close(ctx)

	if setKV != "" {
		key, value, ok := strings.Cut(setKV, "=")
		if !ok {
			return fmt.Errorf("-set wants key=value, got %q", setKV)
		}
		if err := tex.SetMetadata(ctx, key, []byte(value)); err != nil {
			return fmt.Errorf("set metadata: %w", err)
		}
	}

	if compress > 0 || uastc {
		if err := compressTexture(ctx, tex, compress, uastc); err != nil {
			return fmt.Errorf("compress: %w", err)
		}
	}

	if transcodeTo != "" {
		target, ok := format.ParseTranscodeFormat(transcodeTo)
		if !ok {
			return fmt.Errorf("unknown transcode format %q", transcodeTo)
		}
		if err := tex.Transcode(ctx, target); err != nil {
			return fmt.Errorf("transcode to %s: %w", target, err)
		}
	}

	if info {
		printInfo(ctx, tex)
	}

	if getKey != "" {
		value, err := tex.Metadata(ctx, getKey)
		if err != nil {
			return fmt.Errorf("metadata %q: %w", getKey, err)
		}
		fmt.Printf("%s\n", value)
	}

	if exportPNG != "" {
		target, _ := format.ParseTranscodeFormat(transcodeTo)
		if err := exportBaseImage(ctx, tex, target, transcodeTo != "", exportPNG); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}

	if outFile != "" {
		serialized, err := tex.WriteToMemory(ctx)
		if err != nil {
			return fmt.Errorf("serialize: %w", err)
		}
		if err := os.WriteFile(outFile, serialized, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("Wrote %s (%d bytes)\n", outFile, len(serialized))
	}

	return nil
}

func loadLibrary(ctx context.Context, libFile, mountStr string) (*engine.Library, func(), error) {
	wasmBytes, err := os.ReadFile(libFile)
	if err != nil {
		return nil, nil, fmt.Errorf("read library: %w", err)
	}

	cfg := &engine.Config{}
	if mountStr != "" {
		for _, pair := range strings.Split(mountStr, ",") {
			host, guest, ok := strings.Cut(pair, ":")
			if !ok {
				return nil, nil, fmt.Errorf("mount wants /host:/guest, got %q", pair)
			}
			cfg.Mounts = append(cfg.Mounts, engine.Mount{Host: host, Guest: guest})
		}
	}

	eng, err := engine.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create engine: %w", err)
	}

	lib, err := eng.Load(ctx, wasmBytes)
	if err != nil {
		_ = eng.Close(ctx)
		return nil, nil, fmt.Errorf("load library: %w", err)
	}

	return lib, func() { _ = eng.Close(ctx) }, nil
}

func compressTexture(ctx context.Context, tex *ktx2.Texture, quality int, uastc bool) error {
	if uastc {
		params := ktx2.NewCompressionParams().
			UASTC(true).
			QualityLevel(uint32(quality)).
			Build()
		return tex.CompressBasisEx(ctx, params)
	}
	return tex.CompressBasis(ctx, uint32(quality))
}

func printInfo(ctx context.Context, tex *ktx2.Texture) {
	pf, known := format.PixelFormatFromRaw(tex.PixelFormat())
	pfName := fmt.Sprintf("unknown (%d)", tex.PixelFormat())
	if known {
		pfName = pf.String()
	}

	fmt.Printf("Dimensions: %dx%dx%d\n", tex.Width(), tex.Height(), tex.Depth())
	fmt.Printf("Levels:     %d\n", tex.Levels())
	fmt.Printf("Layers:     %d\n", tex.Layers())
	fmt.Printf("Faces:      %d\n", tex.Faces())
	fmt.Printf("Format:     %s\n", pfName)
	fmt.Printf("Array:      %v\n", tex.IsArray())
	fmt.Printf("Cubemap:    %v\n", tex.IsCubemap())
	fmt.Printf("Compressed: %v\n", tex.IsCompressed())
	fmt.Printf("Needs transcoding: %v\n", tex.NeedsTranscoding(ctx))
}

// exportBaseImage decodes the base level to PNG. Block-compressed data is
// decoded with the BCn software decoder, so only BC targets (and raw RGBA32)
// can be exported; a texture transcoded to ETC/ASTC/PVRTC has no decoder
// here.
func exportBaseImage(ctx context.Context, tex *ktx2.Texture, target format.TranscodeFormat, transcoded bool, path string) error {
	view, err := tex.Image(ctx, 0, 0, 0)
	if err != nil {
		return err
	}

	bcnFormat := bcn.FormatRGBA8
	if transcoded {
		bcnFormat, err = exportFormat(target)
		if err != nil {
			return err
		}
	} else if tex.IsCompressed() {
		return fmt.Errorf("texture is Basis-compressed; pass -transcode to pick a decodable format")
	}

	img, err := bcn.DecodeImageWithOptions(view, int(tex.Width()), int(tex.Height()), bcnFormat, nil)
	if err != nil {
		return fmt.Errorf("decode base image: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	fmt.Printf("Exported %s\n", path)
	return nil
}

func exportFormat(target format.TranscodeFormat) (bcn.Format, error) {
	switch target {
	case format.TranscodeBC1RGB:
		return bcn.FormatDXT1, nil
	case format.TranscodeBC3RGBA:
		return bcn.FormatDXT5, nil
	case format.TranscodeBC4R:
		return bcn.FormatBC4, nil
	case format.TranscodeBC5RG:
		return bcn.FormatBC5, nil
	case format.TranscodeRGBA32:
		return bcn.FormatRGBA8, nil
	default:
		return bcn.FormatUnknown, fmt.Errorf("no software decoder for %s", target)
	}
}
