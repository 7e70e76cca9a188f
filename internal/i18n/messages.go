package i18n

// Ключи сообщений, которые раньше жили в таблице переводов CMS.
const (
	KeyEmailOrPasswordIncorrect = "error.emailOrPasswordIncorrect"
	KeyUserLocked               = "error.userLocked"
	KeyNoUser                   = "error.noUser"
	KeyInvalidSubmission        = "error.invalidSubmission"
)

// Resolver отдаёт локализованное сообщение по ключу.
// Инжектируется в сервисы вместо глобального импорта таблицы переводов.
type Resolver interface {
	Resolve(key, locale string) string
}

// TableResolver — резолвер поверх статической таблицы переводов
// с литеральными fallback значениями для неизвестных ключей.
type TableResolver struct {
	tables map[string]map[string]string
}

// fallbacks повторяют литералы, которые CMS подставляла при отсутствии перевода.
var fallbacks = map[string]string{
	KeyEmailOrPasswordIncorrect: "The email or password provided is incorrect.",
	KeyUserLocked:               "User is locked",
	KeyNoUser:                   "User not found",
	KeyInvalidSubmission:        "Invalid form submission.",
}

// NewTableResolver создаёт резолвер со встроенными таблицами en и ru.
func NewTableResolver() *TableResolver {
	return &TableResolver{
		tables: map[string]map[string]string{
			"en": {
				KeyEmailOrPasswordIncorrect: "The email or password provided is incorrect.",
				KeyUserLocked:               "This user is locked due to having too many failed login attempts.",
				KeyNoUser:                   "User not found",
				KeyInvalidSubmission:        "Invalid form submission.",
			},
			"ru": {
				KeyEmailOrPasswordIncorrect: "Неверный email или пароль.",
				KeyUserLocked:               "Пользователь заблокирован из-за слишком большого числа неудачных попыток входа.",
				KeyNoUser:                   "Пользователь не найден",
				KeyInvalidSubmission:        "Некорректная форма.",
			},
		},
	}
}

// Resolve возвращает перевод для key. Неизвестная локаль деградирует до en,
// неизвестный ключ — до литерального fallback.
func (r *TableResolver) Resolve(key, locale string) string {
	table, ok := r.tables[locale]
	if !ok {
		table = r.tables["en"]
	}
	if msg, ok := table[key]; ok {
		return msg
	}
	if msg, ok := fallbacks[key]; ok {
		return msg
	}
	return key
}
