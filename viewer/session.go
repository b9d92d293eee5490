package viewer

import (
	"log/slog"

	aeno "github.com/netisu/aeno-showcase"
)

// Assets are the resolved locations of the three files a session loads
type Assets struct {
	Scene   string
	Cone    string
	Texture string
}

// Session is one scene built from scratch: its context, the controls bound
// to it and the frame loop drawing it.
type Session struct {
	Context  *SceneContext
	Controls *ControlPanel
	Frames   *FrameLoop
	loader   *Loader
	assets   Assets
	log      *slog.Logger
}

func NewSession(aspect float64, assets Assets, loader *Loader, renderer Renderer, log *slog.Logger) *Session {
	ctx := NewSceneContext(aspect)
	return &Session{
		Context:  ctx,
		Controls: NewControlPanel(ctx),
		Frames:   NewFrameLoop(ctx, renderer),
		loader:   loader,
		assets:   assets,
		log:      log.With("component", "session"),
	}
}

// Start issues both asset loads. Completions arrive in any order.
func (s *Session) Start() {
	s.loader.LoadAsset("scene", s.assets.Scene, s.onSceneAsset)
	s.loader.LoadAsset("cone", s.assets.Cone, s.onConeAsset)
}

func (s *Session) onSceneAsset(a *aeno.Asset) {
	cubes := s.Context.AttachSceneAsset(a)
	s.log.Debug("scene asset attached",
		"cube_mixer", s.Context.CubeMixer.Present(),
		"sphere_mixer", s.Context.SphereMixer.Present(),
		"sphere_material", s.Context.SphereMaterial.Present())
	if len(cubes) == 0 {
		return
	}
	s.loader.LoadTexture("texture", s.assets.Texture, func(tex *aeno.ImageTexture) {
		if !s.Context.BindCubeTexture(cubes, tex) {
			s.log.Debug("no cube has a standard material, texture ignored")
		}
	})
}

func (s *Session) onConeAsset(a *aeno.Asset) {
	s.Context.AttachConeAsset(a)
	s.log.Debug("cone asset attached", "cone_material", s.Context.ConeMaterial.Present())
}
