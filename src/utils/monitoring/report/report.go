package report

type Report struct {
	Market         *MarketReport         `json:"market,omitempty"`
	Dispatcher     *DispatcherReport     `json:"dispatcher,omitempty"`
	Verifier       *VerifierReport       `json:"verifier,omitempty"`
	RedisPublisher *RedisPublisherReport `json:"redis_publisher,omitempty"`
}
