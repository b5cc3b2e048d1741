package service

import (
	"math"
)

// MonthlyMultiplier 月度系数：每月平均周数，固定 4.3
const MonthlyMultiplier = 4.3

// PriceTolerance 前后端价格比对的绝对容差（1 元），吸收浮点误差
const PriceTolerance = 1.0

// ComputeMonthlyPrice 计算月度订阅金额：
// 单餐价格 × 餐别数 × 每周配送日数 × 4.3。
// 不做任何舍入，比对时用 PriceMatches。
func ComputeMonthlyPrice(pricePerMeal float64, mealTypeCount, deliveryDayCount int) float64 {
	return pricePerMeal * float64(mealTypeCount) * float64(deliveryDayCount) * MonthlyMultiplier
}

// PriceMatches 判断客户端提交的金额与服务端计算结果是否一致（容差内）
func PriceMatches(submitted, computed float64) bool {
	return math.Abs(submitted-computed) <= PriceTolerance
}
