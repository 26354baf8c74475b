package queue

import (
	"encoding/json"
	"testing"

	"github.com/nilecart/internal/config"
)

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueOrderConfirmation(OrderNotificationPayload{OrderID: 1}); err != nil {
		t.Fatalf("disabled enqueue should be noop: %v", err)
	}
	if err := client.EnqueueOrderStatusUpdate(OrderStatusUpdatePayload{OrderID: 1, ToStatus: "shipped"}); err != nil {
		t.Fatalf("disabled enqueue should be noop: %v", err)
	}
	var nilClient *Client
	if err := nilClient.EnqueueOrderAdminNew(OrderNotificationPayload{OrderID: 1}); err != nil {
		t.Fatalf("nil client enqueue should be noop: %v", err)
	}
}

func TestNewOrderStatusUpdateTaskPayload(t *testing.T) {
	task, err := NewOrderStatusUpdateTask(OrderStatusUpdatePayload{OrderID: 9, FromStatus: "pending", ToStatus: "processing"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != TaskOrderStatusUpdate {
		t.Fatalf("unexpected task type %s", task.Type())
	}
	var payload OrderStatusUpdatePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		t.Fatalf("decode payload failed: %v", err)
	}
	if payload.OrderID != 9 || payload.ToStatus != "processing" {
		t.Fatalf("unexpected payload %+v", payload)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: "redis", Port: 6380})
	if opt.Addr != "redis:6380" {
		t.Fatalf("unexpected addr %s", opt.Addr)
	}
	if cfg.Concurrency != 10 || cfg.Queues[CriticalQueue] != 6 {
		t.Fatalf("unexpected server config %+v", cfg)
	}
}

func TestTaskIDIsStablePerOrderAndStatus(t *testing.T) {
	if got := taskID(TaskOrderStatusUpdate, 12, "shipped"); got != TaskOrderStatusUpdate+":12:shipped" {
		t.Fatalf("unexpected task id %s", got)
	}
	if taskID(TaskOrderConfirmation, 0) != "" {
		t.Fatalf("zero order id should not produce a task id")
	}
	for taskType, queueName := range taskQueues {
		if queueName != CriticalQueue && queueName != DefaultQueue {
			t.Fatalf("task %s routed to unknown queue %s", taskType, queueName)
		}
	}
}

func TestUserWelcomeTaskRouting(t *testing.T) {
	task, err := NewUserWelcomeTask(UserWelcomePayload{UserID: 4, Locale: "ar"})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if task.Type() != "user:welcome" {
		t.Fatalf("unexpected task type %s", task.Type())
	}
	if taskQueues[TaskUserWelcome] != CriticalQueue {
		t.Fatalf("welcome mail should use the critical queue")
	}
	if got := taskID(TaskUserWelcome, 4); got != "user:welcome:4" {
		t.Fatalf("unexpected task id %s", got)
	}
	var nilClient *Client
	if err := nilClient.EnqueueUserWelcome(UserWelcomePayload{UserID: 4}); err != nil {
		t.Fatalf("nil client enqueue should be noop: %v", err)
	}
}
