package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ivlev/pathcam/internal/config"
	"github.com/ivlev/pathcam/internal/director"
	"github.com/ivlev/pathcam/internal/engine"
	"github.com/ivlev/pathcam/internal/events"
	"github.com/ivlev/pathcam/internal/logging"
	"github.com/ivlev/pathcam/internal/renderer"
	"github.com/ivlev/pathcam/internal/source"
	"github.com/ivlev/pathcam/internal/system"
)

// Подставляется при сборке через -ldflags "-X main.version=..."
var version = "dev"

const inputDir = "input/paths"

func usage() {
	fmt.Fprintf(os.Stderr, `pathcam %s: проигрывание маршрутов камеры по путевым точкам

Использование:
  pathcam [play|export|preview] [флаги]

Команды:
  play     проиграть маршрут и вывести события
  export   записать покадровую временную шкалу в YAML (по умолчанию)
  preview  нарисовать маршрут сверху в PNG

`, version)
}

type options struct {
	command    string
	configPath string
	input      string
	output     string
	mode       string
	easing     string
	fps        int
	loop       bool
	loopPasses int
	width      int
	height     int
	qr         string
	logLevel   string
	dev        bool
	stats      bool
}

func parseArgs(args []string) (*options, error) {
	opts := &options{command: "export"}
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		opts.command, args = args[0], args[1:]
	}
	switch opts.command {
	case "play", "export", "preview":
	default:
		usage()
		return nil, fmt.Errorf("неизвестная команда %q", opts.command)
	}

	fs := flag.NewFlagSet(opts.command, flag.ContinueOnError)
	fs.Usage = func() {
		usage()
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.configPath, "config", "", "Путь к YAML-конфигу")
	fs.StringVar(&opts.input, "input", "", "Файл или URL с точками, можно несколько через запятую (по умолчанию: самый свежий файл в input/paths/)")
	fs.StringVar(&opts.output, "output", "", "Куда писать результат (если пусто, генерируется автоматически в output/)")
	fs.StringVar(&opts.mode, "mode", "", "Режим движения: curve, linear")
	fs.StringVar(&opts.easing, "easing", "", "Сглаживание: linear, sineInOut, quadInOut, cubicInOut, quartInOut, quintInOut")
	fs.IntVar(&opts.fps, "fps", 0, "FPS симуляции")
	fs.BoolVar(&opts.loop, "loop", false, "Зациклить маршрут")
	fs.IntVar(&opts.loopPasses, "loop-passes", 1, "Сколько проходов записать при зацикливании")
	fs.IntVar(&opts.width, "width", 0, "Ширина превью")
	fs.IntVar(&opts.height, "height", 0, "Высота превью")
	fs.StringVar(&opts.qr, "qr", "", "Текст QR-кода на превью (например, ссылка на маршрут)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Уровень логов: debug, info, warn, error")
	fs.BoolVar(&opts.dev, "dev", false, "Человекочитаемые логи")
	fs.BoolVar(&opts.stats, "stats", false, "Показать потребление ресурсов")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// loadConfig накладывает флаги поверх файла конфигурации.
func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if opts.input != "" {
		cfg.InputPath = opts.input
	}
	if opts.output != "" {
		cfg.OutputPath = opts.output
	}
	if opts.mode != "" {
		cfg.Mode = opts.mode
	}
	if opts.easing != "" {
		cfg.Easing = opts.easing
	}
	if opts.fps > 0 {
		cfg.FPS = opts.fps
	}
	if opts.loop {
		cfg.Loop = true
	}
	if opts.width > 0 {
		cfg.Width = opts.width
	}
	if opts.height > 0 {
		cfg.Height = opts.height
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	cfg.ShowStats = opts.stats
	cfg.BuildVersion = version

	return cfg, cfg.Validate()
}

func resolveInputs(cfg *config.Config) ([]string, error) {
	var inputs []string
	for _, in := range strings.Split(cfg.InputPath, ",") {
		if in = strings.TrimSpace(in); in != "" {
			inputs = append(inputs, in)
		}
	}
	if len(inputs) > 0 {
		return inputs, nil
	}

	latest, err := system.FindLatestWaypoints(inputDir)
	if err != nil {
		return nil, fmt.Errorf("%w. Положите файл с точками в %s/", err, inputDir)
	}
	fmt.Printf("[*] Выбран файл: %s\n", latest)
	return []string{latest}, nil
}

// outputPath возвращает путь результата для i-го маршрута из n. Без -output
// имя строится из stem и времени запуска.
func outputPath(cfg *config.Config, stem, ext string, i, n int) string {
	path := cfg.OutputPath
	if path == "" {
		path = director.GenerateOutputPath(director.DefaultTimelineDir, stem, ext)
	}
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if n > 1 {
		base = fmt.Sprintf("%s_%02d", base, i+1)
	}
	return base + ext
}

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			return
		}
		log.Fatalf("[-] Ошибка: %v", err)
	}

	if err := system.EnsureDirs(inputDir, director.DefaultTimelineDir); err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		log.Fatalf("[-] Ошибка конфигурации: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, opts.dev)
	if err != nil {
		log.Fatalf("[-] Ошибка логгера: %v", err)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("version", cfg.BuildVersion))

	inputs, err := resolveInputs(cfg)
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loader := source.NewLoader(cfg.FetchTimeout, logger.Named("source"))
	datasets, err := loader.LoadAll(ctx, inputs, source.Options{Delimiter: cfg.CSVDelimiter})
	if err != nil {
		log.Fatalf("[-] Ошибка загрузки точек: %v", err)
	}

	for i, ds := range datasets {
		fmt.Printf("[*] Маршрут %s: %d точек, режим %s\n", ds.Location, ds.Len(), cfg.Mode)
		if err := run(opts, cfg, logger, ds, i, len(datasets)); err != nil {
			log.Fatalf("[-] Ошибка маршрута %s: %v", ds.Location, err)
		}
	}

	if cfg.ShowStats {
		stats, err := system.CollectStats()
		if err != nil {
			log.Printf("[!] Не удалось собрать статистику: %v", err)
		}
		fmt.Println(stats.Report())
	}
}

func run(opts *options, cfg *config.Config, logger *zap.Logger, ds *source.Dataset, i, n int) error {
	behaviors := engine.BehaviorMap{}
	for _, name := range cfg.SuspendBehaviors {
		t := engine.NewToggle(name)
		t.Changed = func(name string, on bool) {
			logger.Debug("behavior toggled", zap.String("behavior", name), zap.Bool("enabled", on))
		}
		behaviors[name] = t
	}

	rec := engine.NewRecorder()
	player, err := engine.NewPlayer(cfg, rec,
		engine.WithLogger(logger.Named("player")),
		engine.WithBehaviors(behaviors),
	)
	if err != nil {
		return err
	}

	if opts.command == "play" {
		sub := player.Bus.SubscribeAll(func(e events.Event) error {
			fmt.Printf("[*] %7.3fs %s\n", e.Elapsed, e)
			return nil
		})
		defer player.Bus.Unsubscribe(sub)
	}

	if err := player.Start(ds); err != nil {
		return err
	}
	plan := player.Plan()
	fmt.Printf("[*] План: %d шагов, %d перемещений, %.2fs\n", len(plan.Steps), plan.Moves(), plan.Duration)

	passes := 0
	if cfg.Loop {
		passes = opts.loopPasses
	}
	timeline := engine.Simulate(player, rec, engine.SimulateOptions{
		FPS:         cfg.FPS,
		MaxDuration: plan.Duration*float64(max(passes, 1)) + 1,
		Passes:      passes,
	})

	switch opts.command {
	case "play":
		fmt.Printf("[+++] Готово: %d кадров, %.2fs\n", len(timeline.Frames), timeline.Duration)
		return nil

	case "export":
		path := outputPath(cfg, "timeline", ".yaml", i, n)
		if err := system.EnsureDirs(filepath.Dir(path)); err != nil {
			return err
		}
		if err := director.WriteTimeline(timeline, path); err != nil {
			return err
		}
		fmt.Printf("[+++] Успех! Временная шкала: %s\n", path)
		return nil

	case "preview":
		previewOpts := renderer.DefaultPreviewOptions()
		previewOpts.Width, previewOpts.Height = cfg.Width, cfg.Height
		previewOpts.QR = opts.qr
		previewOpts.Cameras = renderer.SampleTimeline(timeline, 0.25)

		img, err := renderer.RenderPreview(player.Sequencer().Paths(ds), ds, previewOpts)
		if err != nil {
			return err
		}
		defer system.PutImage(img)

		path := outputPath(cfg, "preview", ".png", i, n)
		if err := system.EnsureDirs(filepath.Dir(path)); err != nil {
			return err
		}
		if err := renderer.WritePNG(path, img); err != nil {
			return err
		}
		fmt.Printf("[+++] Успех! Превью: %s\n", path)
		return nil
	}
	return nil
}
