package services

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/orderdesk/internal/client/client"
	"github.com/dmitrijs2005/orderdesk/internal/client/forms"
	"github.com/dmitrijs2005/orderdesk/internal/client/models"
	"github.com/dmitrijs2005/orderdesk/internal/client/session"
	"github.com/dmitrijs2005/orderdesk/internal/client/tasks"
	"github.com/dmitrijs2005/orderdesk/internal/logging"
	"github.com/gabriel-vasile/mimetype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	tracerName         = "github.com/dmitrijs2005/orderdesk/internal/client/services"
	orderSlot          = "order"
	orderFallback      = "Order submitted."
	maxImageSize int64 = 10 << 20
)

// OrderService submits orders for the logged-in user.
type OrderService interface {
	// Submit validates order, loads its images and sends it as one request.
	// A submission still in flight is superseded.
	Submit(ctx context.Context, order models.Order) (string, error)
}

type orderService struct {
	client  client.Client
	session *session.Manager
	runner  *tasks.Runner
	log     logging.Logger
}

func NewOrderService(c client.Client, s *session.Manager, r *tasks.Runner, log logging.Logger) OrderService {
	if log == nil {
		log = logging.Nop()
	}
	if r == nil {
		r = tasks.NewRunner()
	}
	return &orderService{client: c, session: s, runner: r, log: log.With("service", "order")}
}

func (s *orderService) Submit(ctx context.Context, order models.Order) (string, error) {
	order.Name = strings.TrimSpace(order.Name)
	order.Address = strings.TrimSpace(order.Address)
	order.PhoneNumber = strings.TrimSpace(order.PhoneNumber)
	order.Price = strings.TrimSpace(order.Price)

	if err := forms.Validate(order); err != nil {
		return "", err
	}
	if !s.session.IsAuthenticated() {
		return "", ErrNotAuthenticated
	}

	price, err := forms.NormalizePrice(order.Price)
	if err != nil {
		return "", err
	}
	order.Price = price

	images, err := LoadImages(order.Images)
	if err != nil {
		return "", err
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "orders.submit")
	defer span.End()
	span.SetAttributes(attribute.Int("order.images", len(images)))

	var msg string
	requestID, err := s.runner.Run(ctx, orderSlot, func(ctx context.Context, requestID string) error {
		span.SetAttributes(attribute.String("order.request_id", requestID))
		s.log.Debug(ctx, "submitting order", "request_id", requestID, "images", len(images))
		m, err := s.client.SubmitOrder(ctx, order, images, requestID)
		msg = m
		return err
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submit failed")
		return "", fmt.Errorf("submit order error: %w", err)
	}

	if msg == "" {
		msg = orderFallback
	}
	s.log.Info(ctx, "order submitted", "request_id", requestID)
	return msg, nil
}

// LoadImages reads the files at paths and detects their content type from
// the data. Parts are named image_<index><ext>.
func LoadImages(paths []string) ([]models.OrderImage, error) {
	images := make([]models.OrderImage, 0, len(paths))
	for i, path := range paths {
		img, err := loadImage(i, path)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func loadImage(i int, path string) (models.OrderImage, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.OrderImage{}, fmt.Errorf("image %s: %w", path, err)
	}
	if info.IsDir() {
		return models.OrderImage{}, fmt.Errorf("image %s: is a directory", path)
	}
	if info.Size() > maxImageSize {
		return models.OrderImage{}, fmt.Errorf("image %s: larger than %d MiB", path, maxImageSize>>20)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.OrderImage{}, fmt.Errorf("image %s: %w", path, err)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return models.OrderImage{}, fmt.Errorf("%w: %s (%s)", ErrNotAnImage, path, mt.String())
	}

	return models.OrderImage{
		FileName:    fmt.Sprintf("image_%d%s", i, mt.Extension()),
		ContentType: mt.String(),
		Data:        data,
	}, nil
}
