package league

import "fmt"

// League is one football league tracked by the calendar pipeline.
type League struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Season   string `yaml:"season"`
	FeedCode string `yaml:"feed_code"`
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Season == "" {
		return fmt.Errorf("league season is required")
	}

	return nil
}
