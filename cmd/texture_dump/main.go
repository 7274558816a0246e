// Package main 导出合成的特效纹理，用于检查纹理合成效果
//
// Usage:
//
//	go run ./cmd/texture_dump [flags]
//
// Flags:
//
//	--out <dir>       输出目录（默认 texture_dump）
//	--config <path>   特效配置文件（默认使用内置默认值）
//	--hue <0..1>      泡泡主题色相（默认 0.55）
//	--size <px>       泡泡尺寸（默认 48）
//	--scale <n>       额外输出放大 n 倍的预览图（默认 4，0 关闭）
//	--seed <n>        随机种子（默认 1）
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/decker502/bubblefx/internal/particle"
	"github.com/decker502/bubblefx/pkg/config"
	"github.com/decker502/bubblefx/pkg/texture"
	"github.com/decker502/bubblefx/pkg/theme"
)

var (
	outFlag    = flag.String("out", "texture_dump", "Output directory")
	configFlag = flag.String("config", "", "Effect config YAML (default: built-in defaults)")
	hueFlag    = flag.Float64("hue", 0.55, "Bubble hue in [0,1)")
	sizeFlag   = flag.Int("size", 48, "Bubble texture size in pixels")
	scaleFlag  = flag.Int("scale", 4, "Also write previews scaled by this factor (0 disables)")
	seedFlag   = flag.Int64("seed", 1, "Random seed")
)

type namedTexture struct {
	name string
	img  *image.RGBA
}

func main() {
	flag.Parse()

	cfg := config.DefaultEffectConfig()
	if *configFlag != "" {
		loaded, err := config.LoadEffectConfig(*configFlag)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	if err := os.MkdirAll(*outFlag, 0o755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}

	synth := texture.NewSynthesizer(particle.NewRand(*seedFlag), cfg.Texture.Options())
	base := theme.HSB(*hueFlag, 0.7, 0.95)

	textures := []namedTexture{
		{"bubble", synth.Bubble(*sizeFlag, base, false)},
		{"bubble_low_contrast", synth.Bubble(*sizeFlag, base, true)},
		{"shimmer", synth.Shimmer(int(float64(*sizeFlag) * cfg.Stream.Shimmer.Scale))},
	}
	for _, layer := range cfg.Burst.Layers {
		textures = append(textures, namedTexture{"dot_" + layer.Name, synth.Dot(layer.SpriteSize)})
	}

	for _, tex := range textures {
		path := filepath.Join(*outFlag, tex.name+".png")
		if err := writePNG(path, tex.img); err != nil {
			log.Fatalf("Failed to write %s: %v", path, err)
		}
		fmt.Printf("✓ %s (%dx%d)\n", path, tex.img.Bounds().Dx(), tex.img.Bounds().Dy())

		if *scaleFlag > 1 {
			b := tex.img.Bounds()
			scaled := image.NewRGBA(image.Rect(0, 0, b.Dx()**scaleFlag, b.Dy()**scaleFlag))
			xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), tex.img, b, xdraw.Src, nil)

			path = filepath.Join(*outFlag, fmt.Sprintf("%s_x%d.png", tex.name, *scaleFlag))
			if err := writePNG(path, scaled); err != nil {
				log.Fatalf("Failed to write %s: %v", path, err)
			}
		}
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return f.Close()
}
