package ai

import "context"

// StubClient заглушка, которая не делает реальных запросов
type StubClient struct {
	Reply string
}

func NewStubClient() *StubClient {
	return &StubClient{Reply: "Заглушка: запрос получен, описание не генерировалось."}
}

func (c *StubClient) Complete(_ context.Context, _ Request) (string, error) {
	return c.Reply, nil
}
