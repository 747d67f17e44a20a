package balldontlie

// Wire shapes for the provider feed. Paginated endpoints wrap rows in
// {data: [...], meta: {next_cursor}}; the legacy teams endpoint returns a
// bare data array with no meta block.

type teamEnvelope struct {
	Data []wireTeam `json:"data"`
}

type playerEnvelope struct {
	Data []wirePlayer `json:"data"`
	Meta *wireMeta    `json:"meta"`
}

type statEnvelope struct {
	Data []wireStat `json:"data"`
	Meta *wireMeta  `json:"meta"`
}

type wireMeta struct {
	NextCursor *int64 `json:"next_cursor"`
	PerPage    int    `json:"per_page"`
}

type wireTeam struct {
	ID           int64  `json:"id"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
	FullName     string `json:"full_name"`
	Name         string `json:"name"`
}

type wirePlayer struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Position  string    `json:"position"`
	Team      *wireTeam `json:"team"`
}

type wireGame struct {
	ID            int64  `json:"id"`
	Date          string `json:"date"`
	Season        int    `json:"season"`
	Status        string `json:"status"`
	HomeTeamID    int64  `json:"home_team_id"`
	VisitorTeamID int64  `json:"visitor_team_id"`
	HomeScore     *int   `json:"home_team_score"`
	VisitorScore  *int   `json:"visitor_team_score"`
}

type wireStat struct {
	ID       int64      `json:"id"`
	Min      string     `json:"min"`
	FGM      int        `json:"fgm"`
	FGA      int        `json:"fga"`
	FG3M     int        `json:"fg3m"`
	FG3A     int        `json:"fg3a"`
	FTM      int        `json:"ftm"`
	FTA      int        `json:"fta"`
	OReb     int        `json:"oreb"`
	DReb     int        `json:"dreb"`
	Reb      int        `json:"reb"`
	Ast      int        `json:"ast"`
	Stl      int        `json:"stl"`
	Blk      int        `json:"blk"`
	Turnover int        `json:"turnover"`
	PF       int        `json:"pf"`
	Pts      int        `json:"pts"`
	Player   wirePlayer `json:"player"`
	Team     wireTeam   `json:"team"`
	Game     wireGame   `json:"game"`
}
