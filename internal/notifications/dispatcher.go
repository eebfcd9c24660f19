package notifications

import "go.uber.org/zap"

// Dispatcher delivers intents sequentially and best-effort: the state
// mutation that produced them is already committed, so a delivery failure is
// logged and the remaining intents still go out.
type Dispatcher struct {
	messenger Messenger
	logger    *zap.SugaredLogger
}

func NewDispatcher(messenger Messenger, logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		messenger: messenger,
		logger:    logger,
	}
}

func (d *Dispatcher) Dispatch(intents []Intent) {
	for _, intent := range intents {
		if err := d.deliver(intent); err != nil {
			d.logger.Errorw("failed to deliver notification",
				"kind", intent.Kind, "member", intent.MemberID, "chat", intent.ChatID, "error", err)
		}
	}
}

func (d *Dispatcher) deliver(intent Intent) error {
	switch intent.Kind {
	case KindDirectMessage:
		return d.messenger.SendDirect(intent.MemberID, intent.Text, intent.Buttons)
	case KindAdminMessage:
		return d.messenger.SendChannel(intent.ChatID, intent.Text, intent.Thread, intent.Buttons)
	case KindEditMessage:
		return d.messenger.EditMessage(intent.ChatID, intent.MessageID, intent.Text)
	case KindRefreshPromotion:
		return d.messenger.RefreshPromotion(intent.ChatID, intent.MessageID, intent.Project)
	case KindRefreshMemberView:
		return d.messenger.RefreshMemberView(intent.MemberID)
	}

	d.logger.Warnw("received unknown notification kind", "kind", intent.Kind)
	return nil
}
