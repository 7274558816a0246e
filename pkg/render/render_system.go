// Package render 使用 Ebitengine 绘制特效实体
//
// 渲染流程：
//  1. 查询泡泡、光泽层和粒子实体
//  2. 按 (贴图, 混合模式) 分组批量渲染（减少 DrawTriangles 调用次数）
//  3. 每个精灵生成 4 个顶点（索引构建 2 个三角形）
//  4. 引擎坐标（左下原点）在此转换为屏幕坐标（左上原点）
//
// 绘制顺序：泡泡 → 光泽层 → Normal 粒子 → Additive 粒子。
package render

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/bubblefx/internal/particle"
	"github.com/decker502/bubblefx/pkg/components"
	"github.com/decker502/bubblefx/pkg/ecs"
	"github.com/decker502/bubblefx/pkg/utils"
)

// maxQuadsPerBatch uint16 索引上限内的最大矩形数
const maxQuadsPerBatch = math.MaxUint16 / 4

// imageCacheSlack 缓存中允许保留的未使用贴图数量
const imageCacheSlack = 64

// additiveBlend 加法混合模式（用于发光效果）
var additiveBlend = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorOne,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// Sprite 一个待绘制的矩形精灵（屏幕坐标，中心锚点）
type Sprite struct {
	X, Y     float64
	Width    float64
	Height   float64
	Rotation float64 // 弧度，屏幕坐标下顺时针为正
	R, G, B  float32
	A        float32
}

type batchKey struct {
	img   *image.RGBA
	blend particle.BlendMode
}

type batch struct {
	key     batchKey
	sprites []Sprite
}

// RenderSystem 特效渲染系统
type RenderSystem struct {
	entityManager *ecs.EntityManager

	// CPU 贴图 → GPU 贴图，同一 *image.RGBA 只上传一次
	images map[*image.RGBA]*ebiten.Image

	// 预分配的顶点数组，避免每帧内存分配
	vertices []ebiten.Vertex
	indices  []uint16
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(em *ecs.EntityManager) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
		images:        make(map[*image.RGBA]*ebiten.Image),
		vertices:      make([]ebiten.Vertex, 0, 4*512),
		indices:       make([]uint16, 0, 6*512),
	}
}

// CachedImages 返回已上传的贴图数量
func (s *RenderSystem) CachedImages() int {
	return len(s.images)
}

// Draw 绘制所有特效实体
// surface 为引擎坐标对应的界面尺寸（通常取 Viewport.Size()）
func (s *RenderSystem) Draw(screen *ebiten.Image, surface utils.Size) {
	bubbles, shimmers, normal, additive := s.collect(surface)

	used := make(map[*image.RGBA]bool)
	for _, group := range [][]*batch{bubbles, shimmers, normal, additive} {
		for _, b := range group {
			used[b.key.img] = true
			s.drawBatch(screen, b)
		}
	}
	s.purge(used)
}

// collect 按绘制层与批次整理精灵，批次保持首次出现顺序
func (s *RenderSystem) collect(surface utils.Size) (bubbles, shimmers, normal, additive []*batch) {
	em := s.entityManager
	index := make(map[batchKey]*batch)
	add := func(list *[]*batch, key batchKey, sp Sprite) {
		b, ok := index[key]
		if !ok {
			b = &batch{key: key}
			index[key] = b
			*list = append(*list, b)
		}
		b.sprites = append(b.sprites, sp)
	}

	for _, id := range ecs.GetEntitiesWith3[
		*components.BubbleComponent,
		*components.PositionComponent,
		*components.SpriteComponent,
	](em) {
		bubble, _ := ecs.GetComponent[*components.BubbleComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		sprite, _ := ecs.GetComponent[*components.SpriteComponent](em, id)
		if sprite.Image == nil || bubble.Alpha <= 0 {
			continue
		}

		p := utils.EngineToScreen(utils.Point{X: pos.X, Y: pos.Y}, surface)
		size := spriteSize(sprite) * bubble.ScaleFactor
		add(&bubbles, batchKey{sprite.Image, sprite.Blend}, Sprite{
			X:        p.X,
			Y:        p.Y,
			Width:    size,
			Height:   size,
			Rotation: -bubble.Rotation,
			R:        1,
			G:        1,
			B:        1,
			A:        float32(utils.Clamp01(bubble.Alpha)),
		})

		if shimmer, ok := ecs.GetComponent[*components.ShimmerComponent](em, id); ok && shimmer.Image != nil {
			ss := size * shimmer.SizeScale
			add(&shimmers, batchKey{shimmer.Image, particle.BlendAlpha}, Sprite{
				X:      p.X + shimmer.OffsetX*bubble.ScaleFactor,
				Y:      p.Y,
				Width:  ss,
				Height: ss,
				R:      1,
				G:      1,
				B:      1,
				A:      float32(utils.Clamp01(bubble.Alpha * shimmer.Alpha)),
			})
		}
	}

	for _, id := range ecs.GetEntitiesWith3[
		*components.ParticleComponent,
		*components.PositionComponent,
		*components.SpriteComponent,
	](em) {
		pc, _ := ecs.GetComponent[*components.ParticleComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		sprite, _ := ecs.GetComponent[*components.SpriteComponent](em, id)
		if sprite.Image == nil || pc.Alpha <= 0 || pc.Scale <= 0 {
			continue
		}

		p := utils.EngineToScreen(utils.Point{X: pos.X, Y: pos.Y}, surface)
		size := spriteSize(sprite) * pc.Scale
		sp := Sprite{
			X:        p.X,
			Y:        p.Y,
			Width:    size,
			Height:   size,
			Rotation: -pc.Rotation,
			R:        float32(pc.Red),
			G:        float32(pc.Green),
			B:        float32(pc.Blue),
			A:        float32(utils.Clamp01(pc.Alpha)),
		}
		key := batchKey{sprite.Image, sprite.Blend}
		if sprite.Blend == particle.BlendAdditive {
			add(&additive, key, sp)
		} else {
			add(&normal, key, sp)
		}
	}
	return bubbles, shimmers, normal, additive
}

func (s *RenderSystem) drawBatch(screen *ebiten.Image, b *batch) {
	img := s.gpuImage(b.key.img)
	bounds := b.key.img.Bounds()

	op := &ebiten.DrawTrianglesOptions{}
	op.AntiAlias = true
	if b.key.blend == particle.BlendAdditive {
		op.Blend = additiveBlend
	}

	for start := 0; start < len(b.sprites); start += maxQuadsPerBatch {
		end := min(start+maxQuadsPerBatch, len(b.sprites))

		// 重置顶点数组（保留容量）
		s.vertices = s.vertices[:0]
		s.indices = s.indices[:0]
		for _, sp := range b.sprites[start:end] {
			s.vertices, s.indices = AppendQuad(s.vertices, s.indices, sp, bounds)
		}
		if len(s.vertices) == 0 {
			continue
		}
		screen.DrawTriangles(s.vertices, s.indices, img, op)
	}
}

// gpuImage 返回（必要时上传）GPU 贴图
func (s *RenderSystem) gpuImage(src *image.RGBA) *ebiten.Image {
	if img, ok := s.images[src]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(src)
	s.images[src] = img
	return img
}

// purge 释放不再被任何实体引用的贴图（泡泡纹理每次触发都不同）
func (s *RenderSystem) purge(used map[*image.RGBA]bool) {
	if len(s.images) <= len(used)+imageCacheSlack {
		return
	}
	for src, img := range s.images {
		if !used[src] {
			img.Deallocate()
			delete(s.images, src)
		}
	}
}

func spriteSize(sprite *components.SpriteComponent) float64 {
	if sprite.Size > 0 {
		return sprite.Size
	}
	return float64(sprite.Image.Bounds().Dx())
}

// AppendQuad 为一个精灵追加 4 个顶点和 6 个索引
//
// 顶点顺序：左上、右上、左下、右下；三角形 (0,1,2) 与 (1,3,2)。
// 精灵以中心为锚点，先旋转后平移。
func AppendQuad(vs []ebiten.Vertex, is []uint16, sp Sprite, src image.Rectangle) ([]ebiten.Vertex, []uint16) {
	hw, hh := sp.Width/2, sp.Height/2
	corners := [4][2]float64{
		{-hw, -hh}, // 左上
		{hw, -hh},  // 右上
		{-hw, hh},  // 左下
		{hw, hh},   // 右下
	}
	srcs := [4][2]float32{
		{float32(src.Min.X), float32(src.Min.Y)},
		{float32(src.Max.X), float32(src.Min.Y)},
		{float32(src.Min.X), float32(src.Max.Y)},
		{float32(src.Max.X), float32(src.Max.Y)},
	}

	cos, sin := math.Cos(sp.Rotation), math.Sin(sp.Rotation)
	base := uint16(len(vs))
	for i, c := range corners {
		x := c[0]*cos - c[1]*sin + sp.X
		y := c[0]*sin + c[1]*cos + sp.Y
		vs = append(vs, ebiten.Vertex{
			DstX:   float32(x),
			DstY:   float32(y),
			SrcX:   srcs[i][0],
			SrcY:   srcs[i][1],
			ColorR: sp.R,
			ColorG: sp.G,
			ColorB: sp.B,
			ColorA: sp.A,
		})
	}
	is = append(is,
		base+0, base+1, base+2, // 第一个三角形
		base+1, base+3, base+2, // 第二个三角形
	)
	return vs, is
}
