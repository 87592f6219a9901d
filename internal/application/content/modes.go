package content

import "icang-ai-api/internal/domain/entity"

// ModeDescriptor 一个模式页面的展示文案
type ModeDescriptor struct {
	Mode          entity.Mode `json:"mode"`
	NavLabel      string      `json:"nav_label"`
	PageTitle     string      `json:"page_title"`
	Title         string      `json:"title"`
	Intro         []string    `json:"intro"`
	InputLabel    string      `json:"input_label"`
	Placeholder   string      `json:"placeholder,omitempty"`
	SubmitLabel   string      `json:"submit_label"`
	Spinner       string      `json:"spinner"`
	SuccessNotice string      `json:"success_notice,omitempty"`
	ResultHeading string      `json:"result_heading"`
	EmptyWarning  string      `json:"empty_warning"`
	// StorySettings 是否展示长度与类型设置
	StorySettings bool `json:"story_settings"`
}

// MissingKeyNotice 未配置 API Key 时的提示
const MissingKeyNotice = "⚠ Google API Key tidak ditemukan! Silakan tambahkan ke file .env"

const defaultPlaceholder = "Contoh: Tips Belajar Python, Manfaat AI dalam Bisnis, dll."

var descriptors = map[entity.Mode]ModeDescriptor{
	entity.ModeStory: {
		Mode:          entity.ModeStory,
		NavLabel:      "📚 Buat Cerita",
		PageTitle:     "AI Content Generator",
		Title:         "ICANG AI Generator 🚀",
		Intro:         []string{"Welcome TO AI ICANG!", "Aplikasi ini menggunakan Google Gemini AI untuk membuat konten berkualitas."},
		InputLabel:    "📝 Masukkan topik konten:",
		Placeholder:   defaultPlaceholder,
		SubmitLabel:   "🔥 Generate Konten",
		Spinner:       "🤖 AI sedang bekerja keras membuat konten untuk Anda...",
		SuccessNotice: "✅ Konten berhasil dibuat!",
		ResultHeading: "📄 Hasil Konten:",
		EmptyWarning:  "⚠ Mohon masukkan topik terlebih dahulu!",
		StorySettings: true,
	},
	entity.ModeInfo: {
		Mode:          entity.ModeInfo,
		NavLabel:      "📰 Cari berita",
		PageTitle:     "Icang AI",
		Title:         "Icang AI 🚀",
		Intro:         []string{"Ayo beritahu apa yang anda mau"},
		InputLabel:    "📝 Berikan saya arahan:",
		Placeholder:   defaultPlaceholder,
		SubmitLabel:   "Mulai mencari",
		Spinner:       "🤖 AI sedang bekerja keras...",
		ResultHeading: "🤖 Hasil Konten:",
		EmptyWarning:  "⚠ Mohon masukkan prompt terlebih dahulu!",
	},
	entity.ModeMath: {
		Mode:          entity.ModeMath,
		NavLabel:      "🧮 Hitung Matematika",
		PageTitle:     "Icang AI",
		Title:         "Icang MATH AI 🚀",
		Intro:         []string{"Memecahkan soal Matematika anda"},
		InputLabel:    "📝 Berikan Soal :",
		SubmitLabel:   "Mulai menghitung",
		Spinner:       "🤖 AI sedang bekerja keras...",
		ResultHeading: "🤖 Hasil menghitung :",
		EmptyWarning:  "⚠ Mohon masukkan soal terlebih dahulu!",
	},
}

// Describe 返回模式的页面文案；未知模式返回 false
func Describe(mode entity.Mode) (ModeDescriptor, bool) {
	d, ok := descriptors[mode]
	if !ok {
		return ModeDescriptor{}, false
	}
	d.Intro = append([]string(nil), d.Intro...)
	return d, true
}

// failurePrefix 远端调用失败时的提示前缀
func failurePrefix(mode entity.Mode) string {
	if mode == entity.ModeMath {
		return "❌ Terjadi error saat menghitung : "
	}
	return "❌ Terjadi error saat generate konten: "
}
