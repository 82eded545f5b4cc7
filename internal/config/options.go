package config

import "sync"

// Options controls what the rendered list shows. The zero value shows
// everything with no filtering.
type Options struct {
	URL    string `yaml:"url" split_words:"true"`
	Target string `yaml:"target" split_words:"true"`

	NoRefresh     bool `yaml:"no_refresh" split_words:"true"`
	NoTotal       bool `yaml:"no_total" split_words:"true"`
	NoAddress     bool `yaml:"no_address" split_words:"true"`
	NoClients     bool `yaml:"no_clients" split_words:"true"`
	NoClientsList bool `yaml:"no_clients_list" split_words:"true"`
	NoVersion     bool `yaml:"no_version" split_words:"true"`
	NoMods        bool `yaml:"no_mods" split_words:"true"`
	NoName        bool `yaml:"no_name" split_words:"true"`
	NoDescription bool `yaml:"no_description" split_words:"true"`
	NoFlags       bool `yaml:"no_flags" split_words:"true"`
	NoUptime      bool `yaml:"no_uptime" split_words:"true"`
	NoPing        bool `yaml:"no_ping" split_words:"true"`

	// Limit caps the number of rendered rows, 0 means unlimited.
	Limit int `yaml:"limit" split_words:"true"`
	// ClientsMin hides servers with fewer clients, 0 disables the filter.
	ClientsMin int `yaml:"clients_min" split_words:"true"`
}

// Restricted reports whether a row limit or a client filter is active.
func (o Options) Restricted() bool {
	return o.Limit > 0 || o.ClientsMin > 0
}

// Shared is the single mutable copy of the options used by one widget.
type Shared struct {
	mu   sync.RWMutex
	opts Options
}

func NewShared(opts Options) *Shared {
	return &Shared{opts: opts}
}

// Get returns a snapshot of the current options.
func (s *Shared) Get() Options {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.opts
}

// ClearRestrictions drops the row limit and the client filter.
func (s *Shared) ClearRestrictions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.opts.Limit = 0
	s.opts.ClientsMin = 0
}
