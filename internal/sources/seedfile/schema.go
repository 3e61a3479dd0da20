package seedfile

// Entry is one website in the seed yaml file.
type Entry struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	IconURL     string `yaml:"icon_url,omitempty"`
	Description string `yaml:"description,omitempty"`
	Favorite    bool   `yaml:"favorite,omitempty"`
}

// SeedConfig is the parsed seed file: a flat list of entries.
type SeedConfig []Entry
