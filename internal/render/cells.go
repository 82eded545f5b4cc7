package render

import (
	"strconv"
	"strings"
	"time"

	"mtlist/internal/format"
	"mtlist/internal/servers"
)

type flag struct {
	abbr string
	set  func(*servers.Record) bool
}

var flags = []flag{
	{"Pwd", func(r *servers.Record) bool { return r.Password }},
	{"Cre", func(r *servers.Record) bool { return r.Creative }},
	{"Dmg", func(r *servers.Record) bool { return r.Damage }},
	{"Pvp", func(r *servers.Record) bool { return r.PvP }},
	{"Ded", func(r *servers.Record) bool { return r.Dedicated }},
	{"Rol", func(r *servers.Record) bool { return r.Rollback }},
	{"Liq", func(r *servers.Record) bool { return r.LiquidFinite }},
}

func td(class, content string) string {
	if class == "" {
		return "<td>" + content + "</td>"
	}
	return `<td class="` + class + `">` + content + "</td>"
}

func (r *Renderer) cell(col column, rec *servers.Record, now time.Time) string {
	switch col {
	case colAddress:
		return td("address", format.FormatAddress(rec.Address, rec.Port))
	case colClients:
		return r.clientsCell(rec)
	case colVersion:
		return r.versionCell(rec)
	case colName:
		return td("name", nameText(rec))
	case colDescription:
		return td("description", format.TruncateWithTooltip(rec.Description, descriptionMax))
	case colFlags:
		return td("flags", flagText(rec))
	case colUptime:
		return td("uptime", uptimeText(rec, now))
	case colPing:
		ping := ""
		if rec.Ping.Valid {
			ping = format.Ping(rec.Ping.Value)
		}
		return td("ping", ping)
	default:
		return td("", "")
	}
}

func (r *Renderer) clientsCell(rec *servers.Record) string {
	text := ""
	if rec.Clients.Valid {
		text = strconv.FormatInt(rec.Clients.Value, 10)
	}
	if rec.ClientsMax.Valid {
		text += "/" + strconv.FormatInt(rec.ClientsMax.Value, 10)
	}
	if rec.ClientsTop.Valid && rec.ClientsTop.Value != "" {
		text += " (" + format.Escape(rec.ClientsTop.Value) + ")"
	}

	class := "clients"
	if !r.opts.NoClientsList && len(rec.ClientsList) > 0 {
		class += " mts_hover_list_text"
		text += format.NameList("Clients", rec.ClientsList)
	}
	return td(class, text)
}

func (r *Renderer) versionCell(rec *servers.Record) string {
	parts := make([]string, 0, 3)
	for _, s := range []servers.String{rec.Version, rec.GameID, rec.MapGen} {
		if s.Valid && s.Value != "" {
			parts = append(parts, format.Escape(s.Value))
		}
	}
	text := strings.Join(parts, " ")
	if rec.ProtoMin.Valid || rec.ProtoMax.Valid {
		text = format.Span(text, "protocol "+protoRange(rec.ProtoMin, rec.ProtoMax))
	}

	class := "version"
	if !r.opts.NoMods && len(rec.Mods) > 0 {
		class += " mts_hover_list_text"
		text += format.NameList("Mods", rec.Mods)
	}
	return td(class, text)
}

func protoRange(lo, hi servers.Int) string {
	switch {
	case lo.Valid && hi.Valid && lo.Value != hi.Value:
		return strconv.FormatInt(lo.Value, 10) + "-" + strconv.FormatInt(hi.Value, 10)
	case lo.Valid:
		return strconv.FormatInt(lo.Value, 10)
	default:
		return strconv.FormatInt(hi.Value, 10)
	}
}

func nameText(rec *servers.Record) string {
	name := format.TruncateWithTooltip(rec.Name, nameMax)
	if href := format.SafeURL(rec.URL); href != "" && name != "" {
		return `<a href="` + href + `">` + name + "</a>"
	}
	return name
}

func flagText(rec *servers.Record) string {
	set := make([]string, 0, len(flags))
	for _, f := range flags {
		if f.set(rec) {
			set = append(set, f.abbr)
		}
	}
	return strings.Join(set, " ")
}

func uptimeText(rec *servers.Record, now time.Time) string {
	text := ""
	switch {
	case rec.Uptime.Valid:
		text = format.HumanizeDuration(float64(rec.Uptime.Value), true, now)
	case rec.Start.Valid:
		text = format.HumanizeDuration(float64(rec.Start.Value), false, now)
	}
	if rec.GameTime.Valid {
		text += " / " + format.HumanizeDuration(float64(rec.GameTime.Value), true, now)
	}
	return text
}
