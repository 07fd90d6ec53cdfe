package form

import "strings"

// Messages is the user-facing copy of the request form.
type Messages struct {
	Name    string
	Phone   string
	Message string

	// Alert is the page-level summary shown when any field fails.
	Alert string

	// Success is the toast shown after a valid submission.
	Success string
}

// English is the default catalog.
var English = Messages{
	Name:    "Enter a name (min 2 characters).",
	Phone:   "Enter a valid phone number.",
	Message: "Describe the issue (min 10 characters).",
	Alert:   "Please fix the highlighted fields.",
	Success: "Request saved (demo). Real submission is not implemented yet.",
}

// Russian is the catalog of the original site copy.
var Russian = Messages{
	Name:    "Введите имя (минимум 2 символа).",
	Phone:   "Введите корректный номер телефона.",
	Message: "Опишите проблему (минимум 10 символов).",
	Alert:   "Проверьте выделенные поля.",
	Success: "Заявка сохранена (демо). Отправка будет добавлена позже.",
}

// MessagesFor returns the catalog for a BCP 47 locale such as "ru" or
// "en-US". Unknown locales get English.
func MessagesFor(locale string) Messages {
	lang, _, _ := strings.Cut(strings.ToLower(locale), "-")
	lang, _, _ = strings.Cut(lang, "_")
	switch lang {
	case "ru":
		return Russian
	default:
		return English
	}
}
