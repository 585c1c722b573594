package provision

import (
	"atelierd/internal/common/fsutil"
)

// EnsureLayout creates the models and datastore directories (plus the asset
// subdirectory the pipeline writes to). Idempotent: re-running against an
// existing layout is a no-op.
func (p *Provisioner) EnsureLayout() error {
	for _, dir := range []string{p.cfg.ModelsDir, p.cfg.DatastoreDir, p.cfg.AssetsDir()} {
		if err := fsutil.EnsureDir(dir); err != nil {
			return err
		}
		p.log.Debug().Str("dir", dir).Msg("layout dir ready")
	}
	return nil
}
