package servers

// DefaultPort is the port a server listens on when the directory omits it.
const DefaultPort = 30000

// Record is one server entry of the directory listing. Everything except the
// address is optional and was resolved to a typed value at decode time.
type Record struct {
	Address     string
	Port        int
	Clients     Int
	ClientsMax  Int
	ClientsTop  String
	ClientsList []string

	Version String
	GameID  String
	MapGen  String
	Mods    []string

	Name        string
	URL         string
	Description string

	Password     bool
	Creative     bool
	Damage       bool
	PvP          bool
	Dedicated    bool
	Rollback     bool
	LiquidFinite bool

	Uptime   Int // seconds the server has been up
	Start    Int // unix time the server started
	GameTime Int // in-game elapsed seconds
	Ping     Float

	ProtoMin Int
	ProtoMax Int
}

// Totals holds aggregate counts across the whole directory.
type Totals struct {
	Clients Int `json:"clients"`
	Servers Int `json:"servers"`
}

// Response is a decoded directory document.
type Response struct {
	// List is nil when the document carried no list at all and non-nil
	// (possibly empty) otherwise. Order is as received.
	List     []Record
	Total    *Totals
	TotalMax *Totals
	// Skipped counts malformed entries dropped while decoding.
	Skipped int

	raw []byte
}

// Raw returns the document exactly as it was received.
func (r *Response) Raw() []byte {
	return r.raw
}

// recordJSON mirrors the wire shape. Every field uses a lenient type so a
// wrongly typed value turns into "absent" instead of failing the record.
type recordJSON struct {
	Address      String `json:"address"`
	Port         Int    `json:"port"`
	Clients      Int    `json:"clients"`
	ClientsMax   Int    `json:"clients_max"`
	ClientsTop   String `json:"clients_top"`
	ClientsList  Names  `json:"clients_list"`
	Version      String `json:"version"`
	GameID       String `json:"gameid"`
	MapGen       String `json:"mapgen"`
	Mods         Names  `json:"mods"`
	Name         String `json:"name"`
	URL          String `json:"url"`
	Description  String `json:"description"`
	Password     Bool   `json:"password"`
	Creative     Bool   `json:"creative"`
	Damage       Bool   `json:"damage"`
	PvP          Bool   `json:"pvp"`
	Dedicated    Bool   `json:"dedicated"`
	Rollback     Bool   `json:"rollback"`
	LiquidFinite Bool   `json:"liquid_finite"`
	Uptime       Int    `json:"uptime"`
	Start        Int    `json:"start"`
	GameTime     Int    `json:"game_time"`
	Ping         Float  `json:"ping"`
	ProtoMin     Int    `json:"proto_min"`
	ProtoMax     Int    `json:"proto_max"`
}

func (rj recordJSON) record() Record {
	port := DefaultPort
	if rj.Port.Valid && rj.Port.Value > 0 && rj.Port.Value <= 65535 {
		port = int(rj.Port.Value)
	}

	return Record{
		Address:      rj.Address.Value,
		Port:         port,
		Clients:      rj.Clients.nonNegative(),
		ClientsMax:   rj.ClientsMax.positive(),
		ClientsTop:   rj.ClientsTop,
		ClientsList:  rj.ClientsList,
		Version:      rj.Version,
		GameID:       rj.GameID,
		MapGen:       rj.MapGen,
		Mods:         rj.Mods,
		Name:         rj.Name.Value,
		URL:          rj.URL.Value,
		Description:  rj.Description.Value,
		Password:     rj.Password.True(),
		Creative:     rj.Creative.True(),
		Damage:       rj.Damage.True(),
		PvP:          rj.PvP.True(),
		Dedicated:    rj.Dedicated.True(),
		Rollback:     rj.Rollback.True(),
		LiquidFinite: rj.LiquidFinite.True(),
		Uptime:       rj.Uptime.positive(),
		Start:        rj.Start.positive(),
		GameTime:     rj.GameTime.positive(),
		Ping:         rj.Ping.nonNegative(),
		ProtoMin:     rj.ProtoMin.positive(),
		ProtoMax:     rj.ProtoMax.positive(),
	}
}
