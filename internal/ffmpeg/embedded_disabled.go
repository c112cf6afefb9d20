//go:build !ffmpeg_embedded

package ffmpeg

import "io"

func openEmbeddedAsset(string) (io.ReadCloser, bool, error) {
	return nil, false, nil
}
