package async_test

import (
	"context"
	"sync"

	"sonometre-server/internal/infra/async"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Memory Broker", func() {
	var broker *async.MemoryBroker
	var topic async.Topic
	var subscription async.Subscription
	var message async.Message
	var ctx context.Context

	BeforeEach(func() {
		broker = async.NewMemoryBroker()
		ctx = context.TODO()
	})

	Context("Subscribe", func() {
		When("add a new subscriber for a topic", func() {
			BeforeEach(func() {
				topic = "182efcc3-5b44-475f-a3d0-0a46c0311fb8"
			})

			It("should deliver published messages", func() {
				subscription, _ = broker.Subscribe(topic)

				broker.Publish(ctx, topic, async.Message{})

				Eventually(subscription.Receiver).Should(Receive(&async.Message{}))
			})
		})

		When("multiple subscribers", func() {
			var subscription2 async.Subscription
			BeforeEach(func() {
				topic = "182efcc3-5b44-475f-a3d0-0a46c0311fb8"
			})

			It("should deliver to every subscriber", func() {
				subscription, _ = broker.Subscribe(topic)
				subscription2, _ = broker.Subscribe(topic)

				broker.Publish(ctx, topic, async.Message{})

				Eventually(subscription.Receiver).Should(Receive(&async.Message{}))
				Eventually(subscription2.Receiver).Should(Receive(&async.Message{}))
			})
		})

		When("subscribers arrive concurrently", func() {
			const subscriberCount = 50
			var subscriptions []async.Subscription

			BeforeEach(func() {
				topic = "9b1f9a79-3fca-4f2e-b7a8-cf4a1fbb3a40"
				subscriptions = make([]async.Subscription, subscriberCount)

				var wg sync.WaitGroup
				for i := 0; i < subscriberCount; i++ {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						subscriptions[i], _ = broker.Subscribe(topic)
					}(i)
				}
				wg.Wait()
			})

			It("should keep every subscription", func() {
				broker.Publish(ctx, topic, async.Message{})

				for _, s := range subscriptions {
					Eventually(s.Receiver).Should(Receive(&async.Message{}))
				}
			})
		})

		When("a new message arrives", func() {
			BeforeEach(func() {
				topic = "806ce863-42d8-442f-8517-b8d2a9408767"
				subscription, _ = broker.Subscribe(topic)
				message = async.Message{
					Event: "f20a4b57-95bc-4f2a-b3e6-7e36e05f1b23",
					Value: "a7024c11-3a52-4a29-9360-bc8e6a29ded1",
				}
			})

			It("should receive a message from channel", func() {
				broker.Publish(context.TODO(), topic, message)

				Eventually(subscription.Receiver).Should(Receive(And(
					HaveField("Event", "f20a4b57-95bc-4f2a-b3e6-7e36e05f1b23"),
					HaveField("Value", "a7024c11-3a52-4a29-9360-bc8e6a29ded1"),
				)))
			})
		})

		When("stop broker", func() {
			BeforeEach(func() {
				topic = "806ce863-42d8-442f-8517-b8d2a9408767"
				subscription, _ = broker.Subscribe(topic)
			})

			It("should close the receiver channel", func() {
				go broker.Stop()

				Eventually(subscription.Receiver).Should(BeClosed())
			})
		})
	})

	Context("Unsubscribe", func() {
		When("there is no subscriber", func() {
			BeforeEach(func() {
				topic = "b6541d7c-f455-446c-bea0-1e11bf9c76fc"
				subscription = async.Subscription{
					ID: "2d582ce4-88e1-40a8-bc14-5cf0311943fd",
				}
			})

			It("should report a missing topic", func() {
				err := broker.Unsubscribe(topic, subscription)

				Expect(err).Should(MatchError(async.ErrTopicNotFound))
			})
		})

		When("subscriber doesn't exist", func() {
			var subscription2 async.Subscription
			BeforeEach(func() {
				topic = "b6541d7c-f455-446c-bea0-1e11bf9c76fc"
				subscription, _ = broker.Subscribe(topic)
				subscription2 = async.Subscription{
					ID: "2d582ce4-88e1-40a8-bc14-5cf0311943fd",
				}
			})

			It("should report a missing subscriber", func() {
				err := broker.Unsubscribe(topic, subscription2)

				Expect(err).Should(MatchError(async.ErrSubscriberNotFound))
			})
		})

		When("subscriber does exist", func() {
			BeforeEach(func() {
				topic = "b6541d7c-f455-446c-bea0-1e11bf9c76fc"
				subscription, _ = broker.Subscribe(topic)
				broker.Unsubscribe(topic, subscription)
				message = async.Message{
					Event: "f20a4b57-95bc-4f2a-b3e6-7e36e05f1b23",
					Value: "a7024c11-3a52-4a29-9360-bc8e6a29ded1",
				}
			})

			It("should not deliver any message", func() {
				broker.Publish(context.TODO(), topic, message)

				Eventually(subscription.Receiver).ShouldNot(Receive(And(
					HaveField("Event", "f20a4b57-95bc-4f2a-b3e6-7e36e05f1b23"),
					HaveField("Value", "a7024c11-3a52-4a29-9360-bc8e6a29ded1"),
				)))
			})
		})

		When("is called twice", func() {
			BeforeEach(func() {
				topic = "b6541d7c-f455-446c-bea0-1e11bf9c76fc"
				subscription, _ = broker.Subscribe(topic)
				broker.Unsubscribe(topic, subscription)
			})

			It("should not panic", func() {
				err := broker.Unsubscribe(topic, subscription)

				Expect(err).Should(Succeed())
			})
		})
	})

	Context("Publish", func() {
		When("topic doesn't exist", func() {
			BeforeEach(func() {
				topic = "bcf9eba6-519e-4983-85b2-aa58d31c8a01"
			})

			It("should return an error", func() {
				err := broker.Publish(context.TODO(), topic, async.Message{})

				Expect(err).ShouldNot(Succeed())
			})
		})

		When("there is no subscriber", func() {
			BeforeEach(func() {
				topic = "bcf9eba6-519e-4983-85b2-aa58d31c8a01"
				subscription, _ := broker.Subscribe(topic)
				broker.Unsubscribe(topic, subscription)
			})

			It("should return no error", func() {
				err := broker.Publish(context.TODO(), topic, async.Message{})

				Expect(err).Should(Succeed())
			})
		})

		When("there is at least one subscriber", func() {
			BeforeEach(func() {
				topic = "bcf9eba6-519e-4983-85b2-aa58d31c8a01"
				subscription, _ = broker.Subscribe(topic)
			})

			It("should return no error", func() {
				err := broker.Publish(context.TODO(), topic, async.Message{})

				Expect(err).Should(Succeed())
			})
		})
	})
})
