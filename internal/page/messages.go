package page

import (
	"golang.org/x/text/language"

	"fittingroom/internal/fitting"
)

// Messages is the UI copy for one locale.
type Messages struct {
	Title         string
	Subtitle      string
	UploadHeading string
	ClickToUpload string
	ChooseFile    string
	Remove        string
	Create        string
	Generating    string
	Waiting       string
	ErrorTitle    string
	Placeholder   string
	ResultAlt     string
	Incomplete    string
	UploadFailed  string
	SlotLabels    map[fitting.Slot]string
}

// SupportedLocales lists the locales with a catalog, preferred first.
var SupportedLocales = []language.Tag{language.English, language.Indonesian}

var catalogs = map[language.Tag]Messages{
	language.English: {
		Title:         "Virtual Fitting Room AI",
		Subtitle:      "Upload a model, top, and bottom to see the magic happen.",
		UploadHeading: "Upload Your Images",
		ClickToUpload: "Click to upload",
		ChooseFile:    "Upload",
		Remove:        "Remove image",
		Create:        "Create Fitting",
		Generating:    "Generating...",
		Waiting:       "AI is creating your look... Please wait.",
		ErrorTitle:    "Error",
		Placeholder:   "Your generated image will appear here.",
		ResultAlt:     "Generated fitting",
		Incomplete:    fitting.MsgIncomplete,
		UploadFailed:  "That file could not be read as a PNG, JPEG or WEBP image.",
		SlotLabels: map[fitting.Slot]string{
			fitting.SlotModel:  "Model",
			fitting.SlotTop:    "Top",
			fitting.SlotBottom: "Bottom",
		},
	},
	language.Indonesian: {
		Title:         "Ruang Pas Virtual AI",
		Subtitle:      "Unggah model, atasan, dan bawahan untuk melihat hasilnya.",
		UploadHeading: "Unggah Gambar Anda",
		ClickToUpload: "Klik untuk mengunggah",
		ChooseFile:    "Unggah",
		Remove:        "Hapus gambar",
		Create:        "Buat Fitting",
		Generating:    "Sedang membuat...",
		Waiting:       "AI sedang membuat tampilan Anda... Mohon tunggu.",
		ErrorTitle:    "Galat",
		Placeholder:   "Gambar hasil akan muncul di sini.",
		ResultAlt:     "Hasil fitting",
		Incomplete:    "Silakan unggah ketiga gambar.",
		UploadFailed:  "Berkas tidak dapat dibaca sebagai gambar PNG, JPEG, atau WEBP.",
		SlotLabels: map[fitting.Slot]string{
			fitting.SlotModel:  "Model",
			fitting.SlotTop:    "Atasan",
			fitting.SlotBottom: "Bawahan",
		},
	},
}

// MessagesFor returns the catalog for locale, falling back to English.
func MessagesFor(locale string) Messages {
	tag, err := language.Parse(locale)
	if err == nil {
		base, _ := tag.Base()
		for _, supported := range SupportedLocales {
			if sb, _ := supported.Base(); sb == base {
				return catalogs[supported]
			}
		}
	}
	return catalogs[language.English]
}
