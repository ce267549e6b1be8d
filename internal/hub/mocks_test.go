package hub

import (
	"encoding/json"
	"sync"

	"duetsync/backend/internal/domain"
)

// fakeConn records every frame the hub sends so tests can assert on decoded
// events instead of raw bytes.
type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{}
}

func (c *fakeConn) TrySend(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	c.frames = append(c.frames, buf)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

// events decodes every recorded frame.
func (c *fakeConn) events() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.frames))
	for _, f := range c.frames {
		var m map[string]any
		if err := json.Unmarshal(f, &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

func (c *fakeConn) eventsOfType(t string) []map[string]any {
	var out []map[string]any
	for _, e := range c.events() {
		if e["type"] == t {
			out = append(out, e)
		}
	}
	return out
}

func (c *fakeConn) lastOfType(t string) (map[string]any, bool) {
	evs := c.eventsOfType(t)
	if len(evs) == 0 {
		return nil, false
	}
	return evs[len(evs)-1], true
}

// stubPicker always assigns the same song, keeping pairing deterministic.
type stubPicker struct {
	song *domain.Song
}

func (s stubPicker) Random() *domain.Song { return s.song }

func testSong() *domain.Song {
	return &domain.Song{
		ID:        "test-song",
		Title:     "Test Song",
		Artist:    "Nobody",
		YoutubeID: "dQw4w9WgXcQ",
		Lyrics: []domain.LyricLine{
			{Time: 1.5, Text: "first line"},
			{Time: 4.0, Text: "second line"},
		},
	}
}

func newTestHub(opts Options) *Hub {
	return New(stubPicker{song: testSong()}, opts)
}

// connect binds a fresh fake transport under the given id.
func connect(h *Hub, id string) *fakeConn {
	conn := newFakeConn()
	h.Connect(domain.ConnID(id), conn)
	return conn
}
