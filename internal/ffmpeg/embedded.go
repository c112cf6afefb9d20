//go:build ffmpeg_embedded

package ffmpeg

import (
	"embed"
	"errors"
	"io"
	"io/fs"
)

// Builds with the ffmpeg_embedded tag ship the platform archive inside the
// binary. Place the ffbinaries zip under internal/ffmpeg/assets/ before
// building.
//
//go:embed assets/*
var embeddedArchives embed.FS

func openEmbeddedAsset(name string) (io.ReadCloser, bool, error) {
	file, err := embeddedArchives.Open("assets/" + name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return file, true, nil
}
