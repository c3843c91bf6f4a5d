package course

import "lifecourse/api/internal/models"

// DefaultCatalog is the fixed 15-day session list used to bootstrap an
// empty catalog. IDs are assigned by the repository at insert time.
func DefaultCatalog() []models.Session {
	return []models.Session{
		{
			DayNumber: 1,
			Title:     "Reviling",
			Type:      models.SessionTypeOneOnOne,
			ContextPoints: []string{
				"Reviling what they consider themselves (Blind spot)",
				"Showing them by default context which they made for themselves",
				"Impact of it",
				"Make them face it and make them understand that it is harmless fear",
			},
		},
		{
			DayNumber: 2,
			Title:     "Sparkling Noise in My head",
			Type:      models.SessionTypeRecorded,
			MediaURL:  "https://media.lifecourse.app/audio/day-02.mp3",
			ContextPoints: []string{
				"Realtime Navigation of life",
				"Getting present to clutter of thoughts",
				"Creating space for Focus",
			},
		},
		{
			DayNumber: 3,
			Title:     "Live Simply Unreasonable Life",
			Type:      models.SessionTypeOneOnOne,
			ContextPoints: []string{
				"To live Courageous life",
				"To get present, how past impacting Decisions",
				"To live a Present and reason free or unreasonable Life",
			},
		},
		{
			DayNumber: 4,
			Title:     "4 Power tools for Powerful Life",
			Type:      models.SessionTypeOneOnOne,
			ContextPoints: []string{
				"Proving 4 tools to make Life easy",
				"Key of success – Discipline",
				"Registration of Possibility – Shared Vision",
				"Team Work – Family & friend",
				"Keep Possibility alive – Life For",
			},
		},
		{
			DayNumber: 5,
			Title:     "Reality of Right Now",
			Type:      models.SessionTypeRecorded,
			MediaURL:  "https://media.lifecourse.app/audio/day-05.mp3",
			ContextPoints: []string{
				"Empty the Present",
				"Awareness of unbeatable Past or its impact on everything",
			},
		},
		{
			DayNumber: 6,
			Title:     "Winning and Losing Qualities",
			Type:      models.SessionTypeOneOnOne,
			ContextPoints: []string{
				"Awareness of winning and losing factor",
				"Expansion of Strength",
			},
		},
		{
			DayNumber: 7,
			Title:     "Healing Relationship Beyond Anger",
			Type:      models.SessionTypeRecorded,
			MediaURL:  "https://media.lifecourse.app/audio/day-07.mp3",
			ContextPoints: []string{
				"Inner Peace in Relations",
				"Healthier Relations",
			},
		},
		{
			DayNumber: 8,
			Title:     "Realistic Dreams",
			Type:      models.SessionTypeRecorded,
			MediaURL:  "https://media.lifecourse.app/audio/day-08.mp3",
			ContextPoints: []string{
				"Creating Magical Life",
				"Realtime creation of future in Present",
			},
		},
		{
			DayNumber: 9,
			Title:     "Self-Pity",
			Type:      models.SessionTypeRecorded,
			MediaURL:  "https://media.lifecourse.app/audio/day-09.mp3",
			ContextPoints: []string{
				"Real reason for Dependency",
				"Reason of laziness and freedom",
			},
		},
		{
			DayNumber: 10,
			Title:     "Sehajta (Simplicity)",
			Type:      models.SessionTypeRecorded,
			MediaURL:  "https://media.lifecourse.app/audio/day-10.mp3",
			ContextPoints: []string{
				"Release the Triggers",
				"Get peace of mind",
			},
		},
		{
			DayNumber: 11,
			Title:     "Assumptions of Life",
			Type:      models.SessionTypeRecorded,
			MediaURL:  "https://media.lifecourse.app/audio/day-11.mp3",
			ContextPoints: []string{
				"Freedom from Social agreements",
				"Clarity in life",
			},
		},
		{
			DayNumber: 12,
			Title:     "Overthinking",
			Type:      models.SessionTypeRecorded,
			MediaURL:  "https://media.lifecourse.app/audio/day-12.mp3",
			ContextPoints: []string{
				"Don’t take yourself seriously",
				"Confidence vs overconfidence",
			},
		},
		{
			DayNumber: 13,
			Title:     "Child Within You",
			Type:      models.SessionTypeRecorded,
			MediaURL:  "https://media.lifecourse.app/audio/day-13.mp3",
			ContextPoints: []string{
				"Connection with childhood",
				"Freedom from the past",
			},
		},
		{
			DayNumber: 14,
			Title:     "Santulan – The art of Balance",
			Type:      models.SessionTypeRecorded,
			MediaURL:  "https://media.lifecourse.app/audio/day-14.mp3",
			ContextPoints: []string{
				"Ability to handle Emotions",
			},
		},
		{
			DayNumber: 15,
			Title:     "How to maintain Consistency",
			Type:      models.SessionTypeRecorded,
			MediaURL:  "https://media.lifecourse.app/audio/day-15.mp3",
			ContextPoints: []string{
				"Generating happiness",
				"Practicing happiness",
			},
		},
	}
}
