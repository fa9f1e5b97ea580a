package dtos

type HadithResponse struct {
	ArabicText         string `json:"arabic_text"`
	EnglishTranslation string `json:"english_translation"`
	Source             string `json:"source"`
}

type DailyInsightResponse struct {
	Hadith        HadithResponse `json:"hadith"`
	Encouragement string         `json:"encouragement"`
}
