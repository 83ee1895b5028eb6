package checker

import "errors"

var (
	// ErrCaptchaUnsolved — изображение капчи получено, но валидный токен
	// не подобран за отведённые попытки.
	ErrCaptchaUnsolved = errors.New("капча не решена")

	// ErrLoginFailed — все попытки входа исчерпаны.
	ErrLoginFailed = errors.New("вход в портал не выполнен")

	// ErrStructureUnrecognized — ни одна стратегия поиска не нашла блоки
	// предметов, страница изменилась.
	ErrStructureUnrecognized = errors.New("структура страницы не распознана")

	// ErrNavigationFailed — портал вернул на форму входа вместо страницы
	// посещаемости.
	ErrNavigationFailed = errors.New("переход на страницу посещаемости не удался")
)
