package axis

import (
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
)

// Persister writes a TOML snapshot of the axes' persistent configuration on
// request. It implements the protocol's save collaborator: the save command
// is fire-and-forget, so failures are logged rather than returned.
type Persister struct {
	Path   string
	Axes   []*Axis
	Logger *slog.Logger
}

type persistedAxis struct {
	VelLimit   float64 `toml:"vel_limit"`
	CurrentLim float64 `toml:"current_lim"`
}

type persistedConfig struct {
	Axes []persistedAxis `toml:"axis"`
}

// SaveConfiguration snapshots the per-axis limits and writes them to Path.
func (p *Persister) SaveConfiguration() {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if p.Path == "" {
		logger.Warn("no save path configured, skipping configuration save")
		return
	}

	cfg := persistedConfig{}
	for _, a := range p.Axes {
		cfg.Axes = append(cfg.Axes, persistedAxis{
			VelLimit:   a.VelocityLimit(),
			CurrentLim: a.CurrentLimit(),
		})
	}

	f, err := os.Create(p.Path)
	if err != nil {
		logger.Error("failed to save configuration", "path", p.Path, "error", err)
		return
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		logger.Error("failed to encode configuration", "path", p.Path, "error", err)
		return
	}
	logger.Info("configuration saved", "path", p.Path)
}
