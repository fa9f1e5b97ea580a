package services

import (
	"fmt"
	"time"

	"github.com/afdhal/swalath-backend-service/internal/aggregate"
	"github.com/afdhal/swalath-backend-service/internal/dtos"
)

type InsightServicer interface {
	DailyHadith(day time.Time) dtos.HadithResponse
	Encouragement(name string, summary aggregate.Summary) string
}

type insight struct{}

func NewInsightService() InsightServicer {
	return insight{}
}

// hadiths is a small curated collection from Sahih al-Bukhari and Sahih
// Muslim; the daily pick rotates deterministically by day of year so every
// client sees the same Hadith on the same day.
var hadiths = []dtos.HadithResponse{
	{
		ArabicText:         "إِنَّمَا الأَعْمَالُ بِالنِّيَّاتِ",
		EnglishTranslation: "Actions are but by intentions.",
		Source:             "Sahih al-Bukhari 1",
	},
	{
		ArabicText:         "أَحَبُّ الأَعْمَالِ إِلَى اللَّهِ أَدْوَمُهَا وَإِنْ قَلَّ",
		EnglishTranslation: "The most beloved of deeds to Allah are those done most consistently, even if small.",
		Source:             "Sahih al-Bukhari 6464",
	},
	{
		ArabicText:         "الطُّهُورُ شَطْرُ الإِيمَانِ",
		EnglishTranslation: "Purity is half of faith.",
		Source:             "Sahih Muslim 223",
	},
	{
		ArabicText:         "مَنْ سَلَكَ طَرِيقًا يَلْتَمِسُ فِيهِ عِلْمًا سَهَّلَ اللَّهُ لَهُ بِهِ طَرِيقًا إِلَى الْجَنَّةِ",
		EnglishTranslation: "Whoever treads a path seeking knowledge, Allah eases for him a path to Paradise.",
		Source:             "Sahih Muslim 2699",
	},
	{
		ArabicText:         "الْكَلِمَةُ الطَّيِّبَةُ صَدَقَةٌ",
		EnglishTranslation: "A good word is charity.",
		Source:             "Sahih al-Bukhari 2989",
	},
	{
		ArabicText:         "يَسِّرُوا وَلاَ تُعَسِّرُوا وَبَشِّرُوا وَلاَ تُنَفِّرُوا",
		EnglishTranslation: "Make things easy and do not make them difficult; give glad tidings and do not repel people.",
		Source:             "Sahih al-Bukhari 69",
	},
	{
		ArabicText:         "لاَ يُؤْمِنُ أَحَدُكُمْ حَتَّى يُحِبَّ لأَخِيهِ مَا يُحِبُّ لِنَفْسِهِ",
		EnglishTranslation: "None of you truly believes until he loves for his brother what he loves for himself.",
		Source:             "Sahih al-Bukhari 13",
	},
}

func (i insight) DailyHadith(day time.Time) dtos.HadithResponse {
	return hadiths[day.YearDay()%len(hadiths)]
}

// Encouragement derives a short personalized line from the last week's
// recitation summary.
func (i insight) Encouragement(name string, summary aggregate.Summary) string {
	if name == "" {
		name = "friend"
	}

	switch {
	case summary.DaysTracked == 0:
		return fmt.Sprintf("Bismillah, %s. Log your first swalath today and begin a new streak.", name)
	case summary.DaysTracked >= summary.DaysInRange:
		return fmt.Sprintf("Masha'Allah, %s! A full week of remembrance, %d swalaths and counting.", name, summary.Total)
	case summary.AveragePerDay >= 10:
		return fmt.Sprintf("Well done, %s. You are averaging %d swalaths a day this week. Keep the momentum.", name, summary.AveragePerDay)
	default:
		return fmt.Sprintf("Every remembrance counts, %s. You tracked %d of the last %d days, one more today insha'Allah.", name, summary.DaysTracked, summary.DaysInRange)
	}
}
