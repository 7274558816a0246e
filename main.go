// Command bubblefx 运行主题泡泡特效演示
//
// 用法：
//
//	go run . [flags]
//
// 参数：
//
//	--verbose          启用详细日志（默认关闭）
//	--config <path>    使用外部特效配置文件替代内置 data/effects.yaml
//	--seed <n>         随机种子，0 表示使用当前时间
//	--dark             使用深色背景启动
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/bubblefx/pkg/app"
	"github.com/decker502/bubblefx/pkg/embedded"
)

var (
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging (default off)")
	configFlag  = flag.String("config", "", "Path to an effect config YAML (default: embedded)")
	seedFlag    = flag.Int64("seed", 0, "Random seed, 0 uses the current time")
	darkFlag    = flag.Bool("dark", false, "Start with a dark background")
)

func main() {
	flag.Parse()

	// 初始化嵌入资源
	embedded.Init(dataFS)

	fxApp, err := app.NewApp(app.Config{
		Verbose:    *verboseFlag,
		ConfigPath: *configFlag,
		Seed:       *seedFlag,
		Dark:       *darkFlag,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(app.WindowWidth, app.WindowHeight)
	ebiten.SetWindowTitle("Bubble FX")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(fxApp); err != nil {
		log.Fatal(err)
	}

	if err := fxApp.GetSettingsManager().Save(); err != nil {
		log.Printf("[Main] Warning: Failed to save settings on exit: %v", err)
	}
}
