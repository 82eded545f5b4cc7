// Package render builds the server list markup: an aggregate totals line
// followed by one table row per listed server.
package render

import (
	"strconv"
	"strings"
	"time"

	"mtlist/internal/config"
	"mtlist/internal/format"
	"mtlist/internal/servers"
)

const (
	nameMax        = 50
	descriptionMax = 50
)

type column int

const (
	colAddress column = iota
	colClients
	colVersion
	colName
	colDescription
	colFlags
	colUptime
	colPing
)

var columnTitles = map[column]string{
	colAddress:     "IP[:Port]",
	colClients:     "Players / Max",
	colVersion:     "Version, Gameid, Mapgen",
	colName:        "Name",
	colDescription: "Description",
	colFlags:       "Flags",
	colUptime:      "Uptime, Age",
	colPing:        "Ping, ms",
}

// Renderer turns a directory response into markup.
type Renderer struct {
	opts    config.Options
	moreURL string
	now     func() time.Time
}

type Option func(*Renderer)

// WithClock replaces the clock used for relative times.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		r.now = now
	}
}

// WithMoreURL sets the action the "more" affordance posts to.
func WithMoreURL(url string) Option {
	return func(r *Renderer) {
		r.moreURL = url
	}
}

func New(opts config.Options, options ...Option) *Renderer {
	r := &Renderer{
		opts:    opts,
		moreURL: "/more",
		now:     time.Now,
	}
	for _, o := range options {
		o(r)
	}
	return r
}

func (r *Renderer) columns() []column {
	shown := []struct {
		col    column
		hidden bool
	}{
		{colAddress, r.opts.NoAddress},
		{colClients, r.opts.NoClients},
		{colVersion, r.opts.NoVersion},
		{colName, r.opts.NoName},
		{colDescription, r.opts.NoDescription},
		{colFlags, r.opts.NoFlags},
		{colUptime, r.opts.NoUptime},
		{colPing, r.opts.NoPing},
	}
	cols := make([]column, 0, len(shown))
	for _, s := range shown {
		if !s.hidden {
			cols = append(cols, s.col)
		}
	}
	return cols
}

// Render returns the markup for resp. ok is false when there is nothing to
// render and the caller should keep what it already shows.
func (r *Renderer) Render(resp *servers.Response) (string, bool) {
	if resp == nil || resp.List == nil {
		return "", false
	}

	var b strings.Builder
	if resp.Total != nil && !r.opts.NoTotal {
		b.WriteString(totals(resp.Total, resp.TotalMax))
	}

	cols := r.columns()
	now := r.now()

	b.WriteString(`<table class="mts_table">`)
	if len(resp.List) > 0 {
		b.WriteString("<tr>")
		for _, col := range cols {
			b.WriteString("<th>")
			b.WriteString(columnTitles[col])
			b.WriteString("</th>")
		}
		b.WriteString("</tr>")
	}

	rows := 0
	for i := range resp.List {
		rec := &resp.List[i]
		if r.opts.ClientsMin > 0 && rec.Clients.Value < int64(r.opts.ClientsMin) {
			continue
		}
		if r.opts.Limit > 0 && rows >= r.opts.Limit {
			break
		}
		b.WriteString("<tr>")
		for _, col := range cols {
			b.WriteString(r.cell(col, rec, now))
		}
		b.WriteString("</tr>")
		rows++
	}
	b.WriteString("</table>")

	if r.opts.Restricted() {
		b.WriteString(`<form class="mts_more" method="post" action="`)
		b.WriteString(format.Escape(r.moreURL))
		b.WriteString(`"><button type="submit">more...</button></form>`)
	}

	return b.String(), true
}

func totals(total, totalMax *servers.Totals) string {
	pair := func(cur servers.Int, pick func(*servers.Totals) servers.Int) string {
		s := ""
		if cur.Valid {
			s = strconv.FormatInt(cur.Value, 10)
		}
		if totalMax != nil {
			if m := pick(totalMax); m.Valid {
				s += "/" + strconv.FormatInt(m.Value, 10)
			}
		}
		return s
	}
	clients := pair(total.Clients, func(t *servers.Totals) servers.Int { return t.Clients })
	count := pair(total.Servers, func(t *servers.Totals) servers.Int { return t.Servers })

	return `<div class="mts_total">Players: ` + clients + ` Servers: ` + count + `</div>`
}
