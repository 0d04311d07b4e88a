package lang

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"aocrun/internal/errors"
	"aocrun/internal/logging"
)

// scaffold copies templates/<language>/ into the solution directory. The
// entry-point guard runs before anything is written, and files that already
// exist are left alone.
func scaffold(env Env, entry string) error {
	dir := env.Dir()
	language := env.Location.Language

	if _, err := os.Stat(filepath.Join(dir, entry)); err == nil {
		return errors.Newf(errors.AlreadyInitialized,
			"%s already exists in %s", entry, dir).WithOp(language, "init")
	}

	src := env.Layout.TemplateDir(language)
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return errors.Newf(errors.ScaffoldFailed,
			"no template directory for %s at %s", language, src).WithOp(language, "init")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, errors.ScaffoldFailed, "failed to create "+dir).WithOp(language, "init")
	}

	copied := 0
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dir, rel)

		info, err := d.Info()
		if err != nil {
			return err
		}
		if d.IsDir() {
			return os.MkdirAll(target, info.Mode().Perm()|0700)
		}
		if !info.Mode().IsRegular() {
			logging.AdapterDebug("Skipping non-regular template entry %s", path)
			return nil
		}
		if _, err := os.Stat(target); err == nil {
			logging.AdapterWarn("Keeping existing %s", target)
			return nil
		}
		copied++
		return copyFile(path, target, info.Mode().Perm())
	})
	if err != nil {
		return errors.Wrap(err, errors.ScaffoldFailed,
			"failed to copy template "+src).WithOp(language, "init")
	}

	logging.Adapter("Scaffolded %s from %s (%d files)", env.Location, src, copied)
	return nil
}

func copyFile(src, dst string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
