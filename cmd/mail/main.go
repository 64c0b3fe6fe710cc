package main

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/config"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/evolver/backend/internal/queue"
	"github.com/wneessen/go-mail"
)

type mailKind struct {
	subject  string
	template *template.Template
	data     func() any
}

// loadMailKinds 在启动时解析所有邮件模板
func loadMailKinds(dir string) (map[string]mailKind, error) {
	parse := func(name string) (*template.Template, error) {
		return template.ParseFiles(fmt.Sprintf("%s/%s", dir, name))
	}

	createUser, err := parse("new_account_email.html")
	if err != nil {
		return nil, err
	}
	runFinished, err := parse("run_finished_email.html")
	if err != nil {
		return nil, err
	}

	return map[string]mailKind{
		domain.MailTypeCreateUser: {
			subject:  "进化求解平台 - 账户信息",
			template: createUser,
			data:     func() any { return &domain.CreateUserMailData{} },
		},
		domain.MailTypeRunFinished: {
			subject:  "进化求解平台 - 运行结束",
			template: runFinished,
			data:     func() any { return &domain.RunFinishedMailData{} },
		},
	}, nil
}

func buildMail(from string, kinds map[string]mailKind, body []byte) (*mail.Msg, error) {
	var mailMessage struct {
		Type string          `json:"type"`
		To   string          `json:"to"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &mailMessage); err != nil {
		return nil, fmt.Errorf("邮件信息反序列化失败: %w", err)
	}

	kind, ok := kinds[mailMessage.Type]
	if !ok {
		return nil, fmt.Errorf("不支持的邮件类型: %s", mailMessage.Type)
	}

	// 按类型解码数据，模板中才能按字段名访问
	data := kind.data()
	if err := json.Unmarshal(mailMessage.Data, data); err != nil {
		return nil, fmt.Errorf("邮件数据反序列化失败: %w", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("无法设置邮件发件人: %w", err)
	}
	if err := msg.To(mailMessage.To); err != nil {
		return nil, fmt.Errorf("无法设置邮件收件人: %w", err)
	}
	if err := msg.SetBodyHTMLTemplate(kind.template, data); err != nil {
		return nil, fmt.Errorf("无法设置邮件正文: %w", err)
	}
	msg.Subject(kind.subject)

	return msg, nil
}

func main() {
	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * 读取配置文件
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		return
	}

	kinds, err := loadMailKinds("./templates")
	if err != nil {
		logger.Error("无法解析邮件模板", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 创建邮件客户端
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("无法创建邮件客户端", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	// 验证邮件客户端是否连接成功
	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("无法连接到邮件服务器", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * 连接 RabbitMQ
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("无法连接到 RabbitMQ", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("无法创建通道", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	if err := queue.Declare(ch, cfg.RabbitMQ.EmailQueue); err != nil {
		logger.Error("无法声明队列", slog.String("error", err.Error()))
		return
	}

	// 监听 CTRL+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		cfg.RabbitMQ.EmailQueue, // 队列
		"",                      // 消费者标识，由 RabbitMQ 自动分配
		false,                   // 手动确认
		false,                   // 是否独占队列
		false,                   // RabbitMQ 不支持 noLocal
		false,                   // 等待 RabbitMQ 响应
		nil,                     // 额外参数
	)
	if err != nil {
		logger.Error("无法消费消息", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 用于关闭 goroutine 的上下文
	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Error("消息通道已关闭")
					return
				}
				logger.Info("收到邮件消息", slog.String("message_id", msg.MessageId))

				m, err := buildMail(cfg.Email.SMTP.Username, kinds, msg.Body)
				if err != nil {
					logger.Error("无法构建邮件", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				if err := client.DialAndSend(m); err != nil {
					logger.Error("邮件发送失败", slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // 将消息重新入队
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("等待消息...（按 CTRL+C 退出）")
	<-sigChan

	slog.Info("正在关闭 mail worker...")
	cancel()
	wg.Wait()
	slog.Info("mail worker 已成功关闭")
}
