package tgbot

type ID = int64

// Message одно входящее сообщение, извлеченное из апдейта.
type Message struct {
	UpdateID  ID
	ChatID    ID
	MessageID ID
	Text      string
}

type BotInformation struct {
	ID        ID
	IsBot     bool
	FirstName string
	Username  string
}

// Batch результат одного запроса getUpdates.
// LastUpdateID учитывает и те апдейты, которые не удалось разобрать в Message.
type Batch struct {
	Messages     []Message
	LastUpdateID ID
	Skipped      int
}

func (b *Batch) Len() int {
	if b == nil {
		return 0
	}

	return len(b.Messages)
}
