package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"syscall"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"

	"precip-engine/config"
	"precip-engine/core"
	"precip-engine/editor"
	"precip-engine/engine"
	"precip-engine/grid"
	"precip-engine/internal/opengl"
	"precip-engine/math"
	"precip-engine/renderer"
	"precip-engine/scene"
	"precip-engine/weather"
	"precip-engine/window"
)

var (
	// Set at build.
	version = "v0.1.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "precipitation_info",
		Help:        "Precipitation demo information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

func main() {
	conf := config.Default()

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Renders rain and snow around a free-fly camera.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}
	errors.Encoder = json.Marshal

	if err := conf.Validate(); err != nil {
		logs.Fatal(err)
	}

	if conf.BakeMesh != "" {
		if err := bakeMesh(conf.BakeMesh, conf.Subdivisions); err != nil {
			logs.Fatal(err)
		}
		return
	}

	infoGauge.Set(1)
	if conf.MetricsAddr != "" {
		var admin http.ServeMux
		admin.Handle("/metrics", promhttp.Handler())
		go serveMetrics(ctx, &http.Server{Addr: conf.MetricsAddr, Handler: &admin})
	}

	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("grid_size", conf.GridSize).
		WithTag("subdivisions", conf.Subdivisions).
		Info("starting precipitation demo")

	if err := run(ctx, conf); err != nil {
		logs.Fatal(err)
	}
}

func bakeMesh(path string, subdivisions int) error {
	m, err := weather.BuildPointMesh(subdivisions)
	if err != nil {
		return err
	}
	if err := scene.SaveMeshGLB(m, path); err != nil {
		return errors.New("baking precipitation mesh failed").
			WithTag("path", path).
			Wrap(err)
	}
	logs.WithTag("path", path).
		WithTag("vertices", m.VertexCount()).
		Info("precipitation mesh baked")
	return nil
}

func serveMetrics(ctx context.Context, s *http.Server) {
	go func() {
		<-ctx.Done()
		if err := s.Shutdown(context.Background()); err != nil {
			logs.Warn(errors.New("shutting down the metrics server failed").
				WithTag("addr", s.Addr).
				Wrap(err))
		}
	}()

	logs.WithTag("addr", s.Addr).Info("starting metrics server")
	switch err := s.ListenAndServe(); err {
	case nil, http.ErrServerClosed:
		logs.WithTag("addr", s.Addr).Info("stopping metrics server")
	default:
		logs.Warn(errors.New("metrics server stopped").
			WithTag("addr", s.Addr).
			Wrap(err))
	}
}

// floor draws the reference grid. It is a loop component so it renders
// after the camera moved and before the transparent precipitation.
type floor struct {
	re   *renderer.RenderEngine
	mesh *scene.Mesh
}

func (f floor) Update(dt float32) {
	f.re.DrawMesh(f.mesh, math.Mat4Identity(), core.ColorWhite)
}

// fps converts a frame duration to frames per second. Frames that share a
// timestamp report 0.
func fps(dt float32) float64 {
	if dt <= 0 {
		return 0
	}
	return 1 / float64(dt)
}

func run(ctx context.Context, conf config.Config) error {
	wc := window.DefaultWindowConfig()
	wc.Width = conf.Width
	wc.Height = conf.Height
	wc.VSync = conf.VSync
	wc.Fullscreen = conf.Fullscreen
	win, err := window.NewWindow(wc)
	if err != nil {
		return errors.New("opening window failed").Wrap(err)
	}
	defer win.Destroy()

	backend, err := opengl.NewRenderer()
	if err != nil {
		return errors.New("initializing renderer failed").Wrap(err)
	}

	cam := scene.NewCamera(
		math.Deg2Rad(float32(conf.FOV)),
		float32(win.Width)/float32(win.Height),
		0.1,
		1000,
	)
	re := renderer.NewRenderEngine(backend, cam, win.Width, win.Height)
	defer re.Destroy()

	fc := scene.NewFreeCamera(conf.FreeCamera(), win, cam)
	fc.State.Position = math.NewVec3(0, 2, 0)
	fc.Apply()

	h := grid.NewHandler(float32(conf.GridSize), fc)

	cache := weather.NewMeshCache(conf.Subdivisions, re.ReleaseMesh)
	if conf.MeshFile != "" {
		if err := cache.Load(conf.MeshFile); err != nil {
			logs.Warn(errors.New("using generated precipitation mesh").Wrap(err))
		}
	}
	precipitation := weather.NewManager(h, re, cache)

	loop := engine.NewLoop()
	loop.Gizmos = conf.Gizmos
	ed := editor.NewEditor(win, loop, precipitation)

	loop.Register(ed)
	loop.Register(fc)
	loop.Register(h)
	loop.Register(floor{re: re, mesh: scene.CreateGrid(float32(conf.GridSize), 20)})
	loop.Register(precipitation)
	defer loop.Close()

	width, height := win.Width, win.Height
	last := win.Time()
	lastTitle := last

	for !win.ShouldClose() && !ed.Quit {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		win.PollEvents()
		if win.Width != width || win.Height != height {
			width, height = win.Width, win.Height
			re.Resize(width, height)
		}

		now := win.Time()
		dt := float32(now - last)
		last = now

		re.BeginFrame(dt)
		loop.Tick(dt)
		loop.DrawGizmos(re)
		win.SwapBuffers()

		if now-lastTitle >= 1 {
			lastTitle = now
			stats := re.DrawStats()
			cell, _ := h.Current()
			win.SetTitle(fmt.Sprintf("Precipitation | %.0f fps | cell %s | %d draws | %d instances | %s",
				fps(dt), cell, stats.DrawCalls, stats.Instances, ed.StatusText))
		}
	}
	return nil
}
