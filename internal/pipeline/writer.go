package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/curator/internal/services"
	"github.com/desertthunder/curator/internal/shared"
)

// Writer appends tracks to playlists in request-sized chunks while keeping
// each playlist under the configured capacity ceiling.
//
// Appends targeting the same playlist are serialized with a per-playlist lock
// so concurrent artist passes cannot race past the capacity check.
type Writer struct {
	catalog   services.Catalog
	logger    *log.Logger
	batchSize int
	capacity  int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewWriter creates a Writer. batchSize bounds track ids per append request;
// capacity bounds a playlist's total track count.
func NewWriter(catalog services.Catalog, batchSize, capacity int, logger *log.Logger) *Writer {
	if batchSize <= 0 {
		batchSize = 70
	}
	if capacity <= 0 {
		capacity = 70
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Writer{
		catalog:   catalog,
		logger:    logger,
		batchSize: batchSize,
		capacity:  capacity,
		locks:     make(map[string]*sync.Mutex),
	}
}

// playlistLock returns the mutex serializing writes to one playlist id.
func (w *Writer) playlistLock(playlistID string) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()
	lock, ok := w.locks[playlistID]
	if !ok {
		lock = &sync.Mutex{}
		w.locks[playlistID] = lock
	}
	return lock
}

// Append adds track ids to a playlist and returns the number actually
// appended. The count may be less than requested when the playlist nears its
// capacity ceiling, and zero when the input is empty or the playlist is full.
//
// A chunk failure stops further chunks for this call but does not roll back
// chunks already appended; the partial count is returned alongside the error.
func (w *Writer) Append(ctx context.Context, playlistID string, trackIDs []string) (int, error) {
	if len(trackIDs) == 0 {
		return 0, nil
	}

	lock := w.playlistLock(playlistID)
	lock.Lock()
	defer lock.Unlock()

	playlist, err := w.catalog.Playlist(ctx, playlistID)
	if err != nil {
		return 0, fmt.Errorf("failed to read playlist %s: %w", playlistID, err)
	}

	current := playlist.Tracks.Total
	room := w.capacity - current
	if room <= 0 {
		w.logger.Info("playlist at capacity, skipping append", "playlist_id", playlistID, "current", current)
		return 0, nil
	}
	if len(trackIDs) > room {
		trackIDs = trackIDs[:room]
	}

	added := 0
	for len(trackIDs) > 0 {
		chunk := trackIDs
		if len(chunk) > w.batchSize {
			chunk = chunk[:w.batchSize]
		}
		trackIDs = trackIDs[len(chunk):]

		if err := w.catalog.AddToPlaylist(ctx, playlistID, chunk); err != nil {
			return added, fmt.Errorf("failed to append %d tracks to playlist %s: %w", len(chunk), playlistID, err)
		}

		added += len(chunk)
		w.logger.Info("appended tracks to playlist", "playlist_id", playlistID, "count", len(chunk))
	}

	return added, nil
}
