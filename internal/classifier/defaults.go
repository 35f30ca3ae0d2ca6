package classifier

// DefaultFallbackSource collects citations no bucket matched.
const DefaultFallbackSource = "Other Documents"

// DefaultThemeKeywords is the built-in theme lexicon used when the
// configuration supplies none.
func DefaultThemeKeywords() []string {
	return []string{
		"theft",
		"burglary",
		"robbery",
		"shoplifting",
		"assault",
		"abuse",
		"domestic abuse",
		"domestic violence",
		"stalking",
		"harassment",
		"hate crime",
		"fraud",
		"scam",
		"cyber",
		"antisocial",
		"anti-social",
		"noise",
		"vandalism",
		"criminal damage",
		"drugs",
		"knife",
		"weapon",
		"lost property",
		"lost",
		"missing person",
		"speeding",
		"parking",
		"accident",
		"collision",
		"complaint",
	}
}

// DefaultSourceBuckets is the built-in citation source lexicon, highest
// priority first.
func DefaultSourceBuckets() []SourceBucket {
	return []SourceBucket{
		{Name: "Domestic Abuse Guidance", Keywords: []string{"domestic abuse", "domestic violence", "clare's law", "coercive"}},
		{Name: "Victim Support", Keywords: []string{"victim", "support services", "witness care"}},
		{Name: "Crime Reporting", Keywords: []string{"report a crime", "crime report", "reporting", "crime reference"}},
		{Name: "Fraud & Cybercrime", Keywords: []string{"fraud", "scam", "cyber", "phishing"}},
		{Name: "Lost Property", Keywords: []string{"lost property", "found property", "lost and found"}},
		{Name: "Roads & Traffic", Keywords: []string{"road", "traffic", "collision", "driving", "parking"}},
		{Name: "Firearms & Licensing", Keywords: []string{"firearm", "shotgun", "licen"}},
		{Name: "Freedom of Information", Keywords: []string{"freedom of information", "foi", "disclosure"}},
		{Name: "Contact & Stations", Keywords: []string{"contact", "opening hours", "front desk", "station"}},
	}
}

// DefaultThemeLexicon builds a ThemeLexicon from DefaultThemeKeywords.
func DefaultThemeLexicon() *ThemeLexicon {
	return NewThemeLexicon(DefaultThemeKeywords())
}

// DefaultSourceLexicon builds a SourceLexicon from DefaultSourceBuckets.
func DefaultSourceLexicon() *SourceLexicon {
	return NewSourceLexicon(DefaultSourceBuckets(), DefaultFallbackSource)
}
