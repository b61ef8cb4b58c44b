//go:generate mockgen -source=../order_source.go     -destination=./mock_order_source.go     -package=mocks
//go:generate mockgen -source=../notifier.go         -destination=./mock_notifier.go         -package=mocks
//go:generate mockgen -source=../alert_repository.go -destination=./mock_alert_repository.go -package=mocks
//go:generate mockgen -source=../upstream.go         -destination=./mock_upstream.go         -package=mocks
//go:generate mockgen -source=../logger.go           -destination=./mock_logger.go           -package=mocks
//go:generate mockgen -source=../message_consumer.go -destination=./mock_message_consumer.go -package=mocks
//go:generate mockgen -source=../services.go         -destination=./mock_services.go         -package=mocks

package mocks
