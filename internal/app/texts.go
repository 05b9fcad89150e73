package app

// User-facing texts. The bot speaks Russian only.
const (
	textMainMenu      = "Главное меню:"
	textGenericError  = "Произошла ошибка. Попробуйте позже."
	textWelcomeID     = "Здравствуйте! Перешлите это сообщение Елене Петровне:\n`%d`"
	textWelcomeFollow = "После этого бот будет присылать вам отчёты о проведённых занятиях. Если возникли вопросы, обратитесь к Елене Петровне. Спасибо!"

	textChooseStudent = "Выберите студента:"
	textChooseTopic   = "Выберите тему:"
	textChooseReport  = "Выберите отчёт:"

	textStudentCard     = "ФИО: %s\nРодитель id: %s"
	textNoParent        = "отсутствует"
	textStudentNotFound = "Студент не найден"
	textStudentDeleted  = "Студент удалён"
	textTopicNotFound   = "Тема не найдена"
	textTopicDeleted    = "Тема удалена"
	textReportNotFound  = "Отчёт не найден."

	textConfirmStudentDelete = "Подтвердите удаление студента"
	textConfirmTopicDelete   = "Подтвердите удаление темы"

	textEnterTopic       = "Введите название темы:"
	textEnterStudentName = "Введите ФИО студента:"
	textEnterRename      = "Введите имя и фамилию:"
	textEnterParentID    = "Введите id родителя:"
	textBadParentID      = "id родителя должен быть числом. Введите id родителя:"

	textChooseDate    = "Выберите дату:"
	textEnterDate     = "Введите дату в формате ('ДД-ММ-ГГГГ'):"
	textBadDate       = "Введите дату в корректном формате ('ДД-ММ-ГГГГ'):"
	textHomework      = "Домашнее задание"
	textProactivity   = "Активность на занятии"
	textPayment       = "Занятие"
	textAskComment    = "Добавить комментарий?"
	textEnterComment  = "Введите комментарий:"
	textIncomplete    = "Отчёт не полный. Создайте с самого начала."
	textSaved         = "Отчёт сохранён."
	textSavedAndSent  = "Отчёт сохранён и отправлен родителю."
	textSavedNotSent  = "Отчёт сохранён, но не отправлен: %s. Его можно отправить позже из списка отчётов."
	textNothingToSend = "Нет сохранённых отчётов для отправки."

	textSendInProgress = "Отправка сохранённых отчётов уже идёт. Попробуйте чуть позже."
	textSavedSending   = "Отчёт сохранён, он уже отправляется родителю."
	textSavedNotMarked = "Отчёт отправлен родителю, но не отмечен как отправленный. При следующей отправке он может уйти повторно."
)

// Button labels.
const (
	labelStudents      = "Студенты"
	labelTopics        = "Темы уроков"
	labelReports       = "Отчёты"
	labelNewReport     = "Составить отчёт"
	labelMenu          = "В меню"
	labelBack          = "Назад"
	labelForward       = "Вперёд"
	labelAddStudent    = "Добавить студента"
	labelAddTopic      = "Добавить тему"
	labelToStudents    = "К студентам"
	labelToReports     = "К отчётам"
	labelSendSaved     = "Отправить сохранённые отчёты"
	labelDelete        = "Удалить"
	labelRename        = "Изменить ФИО"
	labelSetParent     = "Изменить id родителя"
	labelToday         = "Сегодня"
	labelYesterday     = "Вчера"
	labelEnterDate     = "Ввести дату"
	labelHomeworkDone  = "Выполнено"
	labelHomeworkPart  = "Выполнено частично"
	labelHomeworkNone  = "Не выполнено"
	labelStrong        = "Сильная"
	labelWeak          = "Слабая"
	labelPaid          = "Оплачено"
	labelNotPaid       = "Не оплачено"
	labelAddComment    = "Добавить"
	labelSkip          = "Пропустить"
	labelRestartReport = "Новый отчёт"
	labelSaveAndSend   = "Сохранить и отправить отчёт"
	labelSaveOnly      = "Сохранить отчёт"
)
