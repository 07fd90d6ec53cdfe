package site

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vango-dev/landing/pkg/assets"
	"gopkg.in/yaml.v3"
)

// Content is the copy shown on the landing page.
type Content struct {
	Lang        string `yaml:"lang"`
	Brand       string `yaml:"brand"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`

	Hero     Hero     `yaml:"hero"`
	Services []Item   `yaml:"services"`
	Reviews  []Review `yaml:"reviews"`
	Contact  Contact  `yaml:"contact"`

	// Labels holds interface strings such as button captions.
	Labels Labels `yaml:"labels"`
}

// Hero is the first screen.
type Hero struct {
	Title string `yaml:"title"`
	Lead  string `yaml:"lead"`
	Card  string `yaml:"card"`
}

// Item is a service card.
type Item struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

// Review is a customer quote.
type Review struct {
	Author string `yaml:"author"`
	Text   string `yaml:"text"`
}

// Contact holds the footer contact details.
type Contact struct {
	Phone   string `yaml:"phone"`
	Email   string `yaml:"email"`
	Address string `yaml:"address"`
}

// Labels are the page's interface strings.
type Labels struct {
	Menu         string `yaml:"menu"`
	Services     string `yaml:"services"`
	Reviews      string `yaml:"reviews"`
	Contacts     string `yaml:"contacts"`
	Request      string `yaml:"request"`
	Close        string `yaml:"close"`
	Name         string `yaml:"name"`
	Phone        string `yaml:"phone"`
	Message      string `yaml:"message"`
	Send         string `yaml:"send"`
	Privacy      string `yaml:"privacy"`
	PrivacyTitle string `yaml:"privacy_title"`
	PrivacyText  string `yaml:"privacy_text"`
}

// Version fingerprints the copy. Documents built from content with the
// same version assign the same live ids.
func (c Content) Version() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return ""
	}
	return assets.Version(data)
}

// DefaultContent returns the built-in copy.
func DefaultContent() Content {
	return Content{
		Lang:        "ru",
		Brand:       "Мастерская",
		Title:       "Мастерская: ремонт техники",
		Description: "Ремонт бытовой техники и электроники с выездом мастера.",
		Hero: Hero{
			Title: "Ремонт техники без лишних хлопот",
			Lead:  "Диагностика в день обращения, гарантия на работы и честные цены.",
			Card:  "Гарантия до 12 месяцев",
		},
		Services: []Item{
			{Title: "Бытовая техника", Text: "Стиральные и посудомоечные машины, холодильники, плиты."},
			{Title: "Электроника", Text: "Ноутбуки, телевизоры, аудиотехника."},
			{Title: "Выезд мастера", Text: "Приедем в удобное время и починим на месте."},
		},
		Reviews: []Review{
			{Author: "Анна", Text: "Починили стиральную машину за один визит."},
			{Author: "Игорь", Text: "Быстро нашли неисправность в ноутбуке, цена как договаривались."},
		},
		Contact: Contact{
			Phone:   "+7 (900) 000-00-00",
			Email:   "hello@example.com",
			Address: "ул. Примерная, 1",
		},
		Labels: Labels{
			Menu:         "Меню",
			Services:     "Услуги",
			Reviews:      "Отзывы",
			Contacts:     "Контакты",
			Request:      "Оставить заявку",
			Close:        "Закрыть",
			Name:         "Имя",
			Phone:        "Телефон",
			Message:      "Что случилось?",
			Send:         "Отправить",
			Privacy:      "Политика конфиденциальности",
			PrivacyTitle: "Конфиденциальность",
			PrivacyText:  "Данные заявки используются только для связи с вами.",
		},
	}
}

// LoadContent reads a YAML content file over the defaults. Keys missing
// from the file keep their default values; unknown keys are an error.
func LoadContent(path string) (Content, error) {
	c := DefaultContent()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("site: parse %s: %w", path, err)
	}
	return c, nil
}
