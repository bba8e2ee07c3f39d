package calculator

import (
	"context"

	"housetemp/model"
)

// calculator 的接口定义

type Calculator interface {
	// 构建推送给前端的数据
	BuildData() model.Snapshot

	// 获取CalcHub
	GetCalcHub() *CalcHub

	// 计算一个时间步长
	Tick() StepStats

	// 运行，直到完成全部迭代、收到停止信号或 ctx 取消
	Run(ctx context.Context) error

	RunID() string
}
