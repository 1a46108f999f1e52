package stub

import "github.com/guessquest/client-go/internal/model"

// Deterministic fixtures. Option ids encode their category (category id * 100
// + n) so the answer handler can mark the right category used. Text fields
// mix plain strings and locale objects on purpose: real backends do both.

func fixtureThemes() []model.Theme {
	return []model.Theme{
		{
			ID:   1,
			Name: model.ByLocale(map[string]string{"en": "Famous People", "ar": "مشاهير"}),
			Slug: "famous-people",
			Icon: "person",
		},
		{
			ID:   2,
			Name: model.ByLocale(map[string]string{"en": "Animals", "ar": "حيوانات"}),
			Slug: "animals",
			Icon: "paw",
		},
	}
}

func fixtureLevels() []model.Level {
	return []model.Level{
		{ID: 1, Name: model.Plain("Easy"), Slug: "easy", CategoriesCount: 3, TimePerAttempt: 300, Difficulty: "easy"},
		{ID: 2, Name: model.Plain("Medium"), Slug: "medium", CategoriesCount: 5, TimePerAttempt: 240, Difficulty: "medium"},
		{ID: 3, Name: model.Plain("Hard"), Slug: "hard", CategoriesCount: 7, TimePerAttempt: 180, Difficulty: "hard"},
	}
}

// fixtureEntity is the hidden answer per theme.
func fixtureEntity(themeID int64) string {
	switch themeID {
	case 2:
		return "Elephant"
	default:
		return "Einstein"
	}
}

func fixtureCategories(themeID int64, count int) []model.Category {
	var all []model.Category
	switch themeID {
	case 2:
		all = []model.Category{
			{ID: 21, Name: model.ByLocale(map[string]string{"en": "Habitat", "ar": "الموطن"}), Slug: "habitat"},
			{ID: 22, Name: model.ByLocale(map[string]string{"en": "Diet", "ar": "الغذاء"}), Slug: "diet"},
			{ID: 23, Name: model.Plain("Size"), Slug: "size"},
			{ID: 24, Name: model.Plain("Appearance"), Slug: "appearance"},
			{ID: 25, Name: model.Plain("Behavior"), Slug: "behavior"},
			{ID: 26, Name: model.Plain("Lifespan"), Slug: "lifespan"},
			{ID: 27, Name: model.Plain("Region"), Slug: "region"},
		}
	default:
		all = []model.Category{
			{ID: 11, Name: model.ByLocale(map[string]string{"en": "Occupation", "ar": "المهنة"}), Slug: "occupation"},
			{ID: 12, Name: model.ByLocale(map[string]string{"en": "Era", "ar": "العصر"}), Slug: "era"},
			{ID: 13, Name: model.Plain("Nationality"), Slug: "nationality"},
			{ID: 14, Name: model.Plain("Achievements"), Slug: "achievements"},
			{ID: 15, Name: model.Plain("Personal Life"), Slug: "personal-life"},
			{ID: 16, Name: model.Plain("Appearance"), Slug: "appearance"},
			{ID: 17, Name: model.Plain("Legacy"), Slug: "legacy"},
		}
	}
	if count > 0 && count < len(all) {
		all = all[:count]
	}
	return all
}

func fixtureQuestion(categoryID int64) (model.Question, bool) {
	questions := map[int64]model.Question{
		11: {
			ID:   1101,
			Text: model.ByLocale(map[string]string{"en": "What field did this person work in?", "ar": "في أي مجال عمل هذا الشخص؟"}),
			Options: []model.QuestionOption{
				{ID: 1101, Text: model.Plain("Science"), CategoryID: 11},
				{ID: 1102, Text: model.Plain("Politics"), CategoryID: 11},
				{ID: 1103, Text: model.Plain("Arts"), CategoryID: 11},
			},
		},
		12: {
			ID:   1201,
			Text: model.Plain("When did this person live?"),
			Options: []model.QuestionOption{
				{ID: 1201, Text: model.Plain("Before 1800"), CategoryID: 12},
				{ID: 1202, Text: model.Plain("1800s-1900s"), CategoryID: 12},
				{ID: 1203, Text: model.Plain("Still alive"), CategoryID: 12},
			},
		},
		13: {
			ID:   1301,
			Text: model.Plain("Where was this person born?"),
			Options: []model.QuestionOption{
				{ID: 1301, Text: model.Plain("Europe"), CategoryID: 13},
				{ID: 1302, Text: model.Plain("Americas"), CategoryID: 13},
				{ID: 1303, Text: model.Plain("Asia"), CategoryID: 13},
			},
		},
		14: {
			ID:   1401,
			Text: model.Plain("Is this person known for a major award?"),
			Options: []model.QuestionOption{
				{ID: 1401, Text: model.Plain("Nobel Prize"), CategoryID: 14},
				{ID: 1402, Text: model.Plain("Olympic Medal"), CategoryID: 14},
			},
		},
		15: {
			ID:   1501,
			Text: model.Plain("Was this person married?"),
			Options: []model.QuestionOption{
				{ID: 1501, Text: model.Plain("Married"), CategoryID: 15},
				{ID: 1502, Text: model.Plain("Never married"), CategoryID: 15},
			},
		},
		16: {
			ID:   1601,
			Text: model.Plain("What is this person's most recognizable feature?"),
			Options: []model.QuestionOption{
				{ID: 1601, Text: model.Plain("Wild hair"), CategoryID: 16},
				{ID: 1602, Text: model.Plain("Glasses"), CategoryID: 16},
			},
		},
		17: {
			ID:   1701,
			Text: model.Plain("Is something named after this person?"),
			Options: []model.QuestionOption{
				{ID: 1701, Text: model.Plain("A scientific unit or element"), CategoryID: 17},
				{ID: 1702, Text: model.Plain("A city"), CategoryID: 17},
			},
		},
		21: {
			ID:   2101,
			Text: model.ByLocale(map[string]string{"en": "Where does this animal live?", "ar": "أين يعيش هذا الحيوان؟"}),
			Options: []model.QuestionOption{
				{ID: 2101, Text: model.Plain("Savanna"), CategoryID: 21},
				{ID: 2102, Text: model.Plain("Ocean"), CategoryID: 21},
				{ID: 2103, Text: model.Plain("Forest"), CategoryID: 21},
			},
		},
		22: {
			ID:   2201,
			Text: model.Plain("What does this animal eat?"),
			Options: []model.QuestionOption{
				{ID: 2201, Text: model.Plain("Plants"), CategoryID: 22},
				{ID: 2202, Text: model.Plain("Meat"), CategoryID: 22},
			},
		},
		23: {
			ID:   2301,
			Text: model.Plain("How big is this animal?"),
			Options: []model.QuestionOption{
				{ID: 2301, Text: model.Plain("Very large"), CategoryID: 23},
				{ID: 2302, Text: model.Plain("Small"), CategoryID: 23},
			},
		},
		24: {
			ID:   2401,
			Text: model.Plain("Does this animal have a trunk?"),
			Options: []model.QuestionOption{
				{ID: 2401, Text: model.Plain("Has a trunk"), CategoryID: 24},
				{ID: 2402, Text: model.Plain("No trunk"), CategoryID: 24},
			},
		},
		25: {
			ID:   2501,
			Text: model.Plain("Does this animal live in groups?"),
			Options: []model.QuestionOption{
				{ID: 2501, Text: model.Plain("In herds"), CategoryID: 25},
				{ID: 2502, Text: model.Plain("Alone"), CategoryID: 25},
			},
		},
		26: {
			ID:   2601,
			Text: model.Plain("How long does this animal live?"),
			Options: []model.QuestionOption{
				{ID: 2601, Text: model.Plain("Over 50 years"), CategoryID: 26},
				{ID: 2602, Text: model.Plain("Under 10 years"), CategoryID: 26},
			},
		},
		27: {
			ID:   2701,
			Text: model.Plain("Which continent is this animal from?"),
			Options: []model.QuestionOption{
				{ID: 2701, Text: model.Plain("Africa"), CategoryID: 27},
				{ID: 2702, Text: model.Plain("Antarctica"), CategoryID: 27},
			},
		},
	}
	q, ok := questions[categoryID]
	return q, ok
}

// yesOptions lists the option ids that are true for each theme's entity.
var yesOptions = map[int64]map[int64]bool{
	1: {1101: true, 1202: true, 1301: true, 1401: true, 1501: true, 1601: true, 1701: true},
	2: {2101: true, 2201: true, 2301: true, 2401: true, 2501: true, 2601: true, 2701: true},
}

func fixtureLeaderboard() []model.LeaderboardEntry {
	return []model.LeaderboardEntry{
		{Rank: 1, Name: "Sara", Score: 2500},
		{Rank: 2, Name: "Omar", Score: 2350},
		{Rank: 3, Name: "Lina", Score: 2200},
		{Rank: 4, Name: "Adam", Score: 2100},
		{Rank: 5, Name: "Maya", Score: 1950},
	}
}
