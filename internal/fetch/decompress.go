package fetch

import (
	"bytes"
	"io"

	"github.com/ulikunitz/xz/lzma"

	"github.com/factordynamics/paracas/internal/perror"
)

// Decompress inflates a legacy-header LZMA stream (the bi5 envelope; not an
// .xz container). Any decode error — bad header, truncated stream, checksum
// mismatch — is classified Corrupt rather than Transient, since a corrupt
// hour on the archive is not fixed by retrying.
func Decompress(blob []byte) ([]byte, error) {
	r, err := lzma.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, perror.Wrap(perror.Corrupt, "decompress", "invalid lzma header", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, perror.Wrap(perror.Corrupt, "decompress", "lzma stream decode failed", err)
	}
	return out, nil
}
