package render

import "github.com/reelforge/reelforge/internal/config"

// BuildArgs constructs the complete engine argument slice for one scene.
// The engine's CLI shape is:
//
//	<engine> <quality-flag> --media_dir <dir> <script> <scene>
//
// The engine derives videos/<script-stem>/<quality-tag>/<scene>.mp4 below
// the media directory on its own; the resolver in internal/paths mirrors
// that layout so the runner knows where to look for the output.
func BuildArgs(cfg *config.Config, req Request, scene, mediaDir string) []string {
	return []string{
		cfg.EngineBin,
		req.Quality.EngineFlag(),
		"--media_dir", mediaDir,
		req.ScriptPath,
		scene,
	}
}
