package storage

// DefaultPlayerState is the document a fresh stub player starts from.
const DefaultPlayerState = `{
  "state": "stopped",
  "volume": 256,
  "time": 0,
  "current": -1,
  "repeat": false,
  "loop": false,
  "random": false,
  "playlist": [],
  "adev": "pulse",
  "devices": [
    {"id": "pulse", "label": "PulseAudio sound server"},
    {"id": "alsa", "label": "ALSA"}
  ]
}`

// NewPlayerStore returns an InmemoryStore seeded with DefaultPlayerState.
func NewPlayerStore() *InmemoryStore {
	store := NewInmemoryStore()
	if err := store.Restore([]byte(DefaultPlayerState)); err != nil {
		panic(err)
	}

	return store
}
