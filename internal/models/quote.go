package models

import "time"

// MarketQuote is the set of lines offered for one upcoming game.
// Nil fields mean the feed did not provide that market.
type MarketQuote struct {
	EventID      string    `json:"event_id"`
	HomeTeam     string    `json:"home_team" validate:"required"`
	AwayTeam     string    `json:"away_team" validate:"required"`
	CommenceTime time.Time `json:"commence_time"`
	Bookmaker    string    `json:"bookmaker"`

	MoneylineHome *int `json:"moneyline_home,omitempty"`
	MoneylineAway *int `json:"moneyline_away,omitempty"`

	SpreadHome      *float64 `json:"spread_home,omitempty"`
	SpreadAway      *float64 `json:"spread_away,omitempty"`
	SpreadHomePrice *int     `json:"spread_home_price,omitempty"`
	SpreadAwayPrice *int     `json:"spread_away_price,omitempty"`

	TotalPoints *float64 `json:"total_points,omitempty"`
	OverPrice   *int     `json:"over_price,omitempty"`
	UnderPrice  *int     `json:"under_price,omitempty"`
}

// Matchup returns the "Away @ Home" label
func (q *MarketQuote) Matchup() string {
	return q.AwayTeam + " @ " + q.HomeTeam
}

// HasMoneyline reports whether both moneyline prices are present
func (q *MarketQuote) HasMoneyline() bool {
	return q.MoneylineHome != nil && q.MoneylineAway != nil
}

// HasTotal reports whether a total points line is present
func (q *MarketQuote) HasTotal() bool {
	return q.TotalPoints != nil
}
